// Command groupctl manages post groups. Groups have no web form; they are
// created and removed by site staff from the command line.
//
//	groupctl create -slug cats -title "Котики" -description "Всё о котах"
//	groupctl delete -slug cats
//	groupctl list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"yatube/cmd/app"
	"yatube/internal/config"
	"yatube/internal/logger"
	"yatube/internal/repository"
	"yatube/internal/service"
)

const commandTimeout = 30 * time.Second

func usage() {
	fmt.Fprintln(os.Stderr, "использование: groupctl <create|delete|list> [флаги]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Production); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.L.Sync()

	command, args := os.Args[1], os.Args[2:]

	var run func(ctx context.Context, groups service.GroupService) error
	switch command {
	case "create":
		run = createCommand(args)
	case "delete":
		run = deleteCommand(args)
	case "list":
		run = listGroups
	default:
		usage()
		os.Exit(2)
	}

	db, _, services := app.App(cfg)
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := run(ctx, services.Group); err != nil {
		logger.L.Error("команда завершилась с ошибкой", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func createCommand(args []string) func(context.Context, service.GroupService) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	slug := fs.String("slug", "", "адрес группы (латиница, цифры, - и _)")
	title := fs.String("title", "", "название группы")
	description := fs.String("description", "", "описание группы")
	_ = fs.Parse(args)

	return func(ctx context.Context, groups service.GroupService) error {
		group, err := groups.Create(ctx, service.GroupForm{
			Title:       *title,
			Slug:        *slug,
			Description: *description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Группа %q создана: /group/%s/\n", group.String(), group.Slug)
		return nil
	}
}

func deleteCommand(args []string) func(context.Context, service.GroupService) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	slug := fs.String("slug", "", "адрес удаляемой группы")
	_ = fs.Parse(args)

	return func(ctx context.Context, groups service.GroupService) error {
		detached, err := groups.Delete(ctx, *slug)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("группа %q не найдена", *slug)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Группа %q удалена, записей без группы: %d\n", *slug, detached)
		return nil
	}
}

func listGroups(ctx context.Context, groups service.GroupService) error {
	list, err := groups.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tНАЗВАНИЕ")
	for _, g := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", g.GroupID, g.Slug, g.String())
	}
	return tw.Flush()
}
