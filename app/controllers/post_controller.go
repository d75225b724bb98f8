package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/zidan444/blog-app/app/middleware"
	"github.com/zidan444/blog-app/app/models"
	"github.com/zidan444/blog-app/app/services"
	"github.com/zidan444/blog-app/app/uploads"
)

const multipartMemory = 8 << 20

// PostController handles HTTP requests for blog posts
type PostController struct {
	responder
	postService *services.PostService
	uploads     *uploads.Store
}

// postForm is what the new and edit forms are filled with.
type postForm struct {
	Title      string
	Content    string
	Categories string
	Image      string
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, store *uploads.Store, templates Templates, logger *slog.Logger) *PostController {
	return &PostController{
		responder:   responder{templates: templates, logger: logger},
		postService: postService,
		uploads:     store,
	}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
		return
	}

	data := struct {
		viewContext
		Posts []*services.PostView
	}{
		viewContext: newViewContext(r),
		Posts:       posts,
	}
	pc.render(w, r, "index", http.StatusOK, data)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}

	userID := currentUserID(r)
	data := struct {
		viewContext
		Post     *services.PostView
		IsOwner  bool
		HasLiked bool
	}{
		viewContext: newViewContext(r),
		Post:        post,
		IsOwner:     post.IsOwnedBy(userID),
		HasLiked:    userID > 0 && post.HasLiked(userID),
	}
	pc.render(w, r, "show", http.StatusOK, data)
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.renderNew(w, r, http.StatusOK, postForm{}, "")
}

func (pc *PostController) renderNew(w http.ResponseWriter, r *http.Request, status int, form postForm, message string) {
	data := struct {
		viewContext
		Form  postForm
		Error string
	}{
		viewContext: newViewContext(r),
		Form:        form,
		Error:       message,
	}
	pc.render(w, r, "new", status, data)
}

func (pc *PostController) renderEdit(w http.ResponseWriter, r *http.Request, status int, id int, form postForm, message string) {
	data := struct {
		viewContext
		PostID int
		Form   postForm
		Error  string
	}{
		viewContext: newViewContext(r),
		PostID:      id,
		Form:        form,
		Error:       message,
	}
	pc.render(w, r, "edit", status, data)
}

// readPostForm parses a url-encoded or multipart post form and stores any
// uploaded image. The returned form echoes the submitted values.
func (pc *PostController) readPostForm(w http.ResponseWriter, r *http.Request) (services.PostInput, postForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, pc.uploads.MaxBytes())

	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pc.sendError(w, r, "Upload too large", http.StatusRequestEntityTooLarge)
		} else {
			pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		}
		return services.PostInput{}, postForm{}, false
	}

	form := postForm{
		Title:      r.FormValue("title"),
		Content:    r.FormValue("content"),
		Categories: r.FormValue("categories"),
	}

	image, err := pc.uploads.SaveFromRequest(r, "image")
	if err != nil {
		pc.serverError(w, r, err)
		return services.PostInput{}, postForm{}, false
	}

	in := services.PostInput{
		Title:      form.Title,
		Content:    form.Content,
		Categories: models.ParseCategories(form.Categories),
		Image:      image,
	}
	return in, form, true
}

// discard removes an upload that will not be referenced by any post.
func (pc *PostController) discard(ref string) {
	if ref == "" {
		return
	}
	if err := pc.uploads.Remove(ref); err != nil {
		pc.logger.Warn("failed to remove upload", slog.String("image", ref), slog.String("error", err.Error()))
	}
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	in, form, ok := pc.readPostForm(w, r)
	if !ok {
		return
	}

	post, err := pc.postService.CreatePost(currentUserID(r), in)
	if err != nil {
		pc.discard(in.Image)
		var verr *services.ValidationError
		if errors.As(err, &verr) && !middleware.WantsJSON(r) {
			pc.renderNew(w, r, http.StatusUnprocessableEntity, form, verr.Message)
			return
		}
		pc.respondError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusCreated, post)
		return
	}
	pc.redirect(w, r, "/")
}

// Edit displays the edit form to the post's owner
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	post, err := pc.postService.GetPostForEdit(id, currentUserID(r))
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	pc.renderEdit(w, r, http.StatusOK, post.ID, postForm{
		Title:      post.Title,
		Content:    post.Content,
		Categories: post.CategoryList(),
		Image:      post.Image,
	}, "")
}

// Update handles updating an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	// Ownership is settled before the body is read so a stranger's upload
	// never reaches disk.
	if _, err := pc.postService.GetPostForEdit(id, currentUserID(r)); err != nil {
		pc.respondError(w, r, err)
		return
	}

	in, form, ok := pc.readPostForm(w, r)
	if !ok {
		return
	}

	post, replaced, err := pc.postService.UpdatePost(id, currentUserID(r), in)
	if err != nil {
		pc.discard(in.Image)
		var verr *services.ValidationError
		if errors.As(err, &verr) && !middleware.WantsJSON(r) {
			pc.renderEdit(w, r, http.StatusUnprocessableEntity, id, form, verr.Message)
			return
		}
		pc.respondError(w, r, err)
		return
	}
	pc.discard(replaced)

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	pc.redirect(w, r, "/"+strconv.Itoa(post.ID))
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	post, err := pc.postService.DeletePost(id, currentUserID(r))
	if err != nil {
		pc.respondError(w, r, err)
		return
	}
	pc.discard(post.Image)

	if middleware.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	pc.redirect(w, r, "/")
}

// Like toggles the caller's like on a post
func (pc *PostController) Like(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	liked, err := pc.postService.ToggleLike(id, currentUserID(r))
	if err != nil {
		pc.respondError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]bool{"liked": liked})
		return
	}
	pc.redirect(w, r, "/"+strconv.Itoa(id))
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
