package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zidan444/blog-app/app/middleware"
	"github.com/zidan444/blog-app/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	responder
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, logger *slog.Logger) *CommentController {
	return &CommentController{
		responder:      responder{logger: logger},
		commentService: commentService,
	}
}

// Index lists a post's comments as JSON
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		cc.respondError(w, r, err)
		return
	}

	comments, err := cc.commentService.ListPostComments(id)
	if err != nil {
		cc.respondError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Create handles adding a comment to a post. Blank comments are dropped and
// the browser is sent back to the post.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		cc.respondError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := cc.commentService.AddComment(id, currentUserID(r), r.FormValue("text"))
	if err != nil {
		var verr *services.ValidationError
		if !errors.As(err, &verr) || middleware.WantsJSON(r) {
			cc.respondError(w, r, err)
			return
		}
	}

	if middleware.WantsJSON(r) {
		cc.sendJSON(w, http.StatusCreated, comment)
		return
	}
	cc.redirect(w, r, "/"+strconv.Itoa(id))
}
