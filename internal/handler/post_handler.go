package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"yatube/internal/middleware"
	"yatube/internal/service"
)

// multipart bodies may carry a little more than the picture itself
const formOverhead = 1 << 20

func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func postURL(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func (h *Handlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	h.renderDetail(w, r, id, service.CommentForm{}, service.ValidationErrors{})
}

func (h *Handlers) renderDetail(w http.ResponseWriter, r *http.Request, id int64, form service.CommentForm, errs service.ValidationErrors) {
	detail, err := h.PostService.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "post_detail.html", ViewData{
		"Detail": detail,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *Handlers) PostCreate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, false, service.PostForm{}, service.ValidationErrors{})
		return
	}

	form, err := h.parsePostForm(w, r)
	if err != nil {
		h.renderPostForm(w, r, false, form, fieldErrors(err))
		return
	}
	defer closeImage(form)

	_, err = h.PostService.Create(r.Context(), user, form)
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.renderPostForm(w, r, false, form, verrs)
		return
	case err != nil:
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

func (h *Handlers) PostEdit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id, ok := postID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if r.Method == http.MethodGet {
		detail, err := h.PostService.Get(r.Context(), id)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		if detail.Post.AuthorID != user.UserID {
			http.Redirect(w, r, postURL(id), http.StatusFound)
			return
		}

		form := service.PostForm{Text: detail.Post.Text, GroupID: detail.Post.GroupID}
		h.renderPostForm(w, r, true, form, service.ValidationErrors{})
		return
	}

	form, err := h.parsePostForm(w, r)
	if err != nil {
		h.renderPostForm(w, r, true, form, fieldErrors(err))
		return
	}
	defer closeImage(form)

	_, err = h.PostService.Edit(r.Context(), user, id, form)
	var verrs service.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNotAuthor):
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return
	case errors.As(err, &verrs):
		h.renderPostForm(w, r, true, form, verrs)
		return
	case err != nil:
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (h *Handlers) PostDelete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id, ok := postID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	_, err := h.PostService.Delete(r.Context(), user, id)
	switch {
	case errors.Is(err, service.ErrNotAuthor):
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return
	case err != nil:
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id, ok := postID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderDetail(w, r, id, service.CommentForm{}, service.ValidationErrors{"text": "Некорректная форма."})
		return
	}

	form := service.CommentForm{Text: r.PostFormValue("text")}

	_, err := h.PostService.AddComment(r.Context(), user, id, form)
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.renderDetail(w, r, id, form, verrs)
		return
	case err != nil:
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, isEdit bool, form service.PostForm, errs service.ValidationErrors) {
	groups, err := h.GroupService.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "create_post.html", ViewData{
		"IsEdit": isEdit,
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
	})
}

// parsePostForm reads text, group and the optional image. The returned form
// keeps whatever was parsed so the page can be re-rendered on error.
func (h *Handlers) parsePostForm(w http.ResponseWriter, r *http.Request) (service.PostForm, error) {
	var form service.PostForm

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize + formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return form, service.ValidationErrors{"image": "Файл слишком большой."}
	}

	form.Text = r.FormValue("text")

	if raw := strings.TrimSpace(r.FormValue("group")); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return form, service.ValidationErrors{"group": "Выберите корректный вариант."}
		}
		form.GroupID = &groupID
	}

	form.ClearImage = r.FormValue("clear_image") != ""

	if r.MultipartForm == nil {
		return form, nil
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return form, nil
	case err != nil:
		return form, service.ValidationErrors{"image": "Не удалось прочитать файл."}
	}
	if header.Size == 0 {
		file.Close()
		return form, nil
	}

	form.Image = &service.ImageUpload{
		FileName: header.Filename,
		Size:     header.Size,
		File:     file,
	}
	return form, nil
}

func closeImage(form service.PostForm) {
	if form.Image == nil {
		return
	}
	if closer, ok := form.Image.File.(io.Closer); ok {
		_ = closer.Close()
	}
}

func fieldErrors(err error) service.ValidationErrors {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return service.ValidationErrors{"__all__": err.Error()}
}
