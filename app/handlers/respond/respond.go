package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/services"
	"github.com/unrolled/render"
)

type Message struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Error writes err as a JSON body with the matching status code. op names
// the calling handler in the log line written for unexpected errors.
func Error(rnd *render.Render, w http.ResponseWriter, op string, err error) {
	var vErrs validator.ValidationErrors
	var vErr *services.ValidationError

	switch {
	case errors.As(err, &vErrs):
		_ = rnd.JSON(w, http.StatusBadRequest, Message{
			Message: "Validation failed.",
			Errors:  helpers.FormatValidationErrors(vErrs),
		})
	case errors.As(err, &vErr):
		body := Message{Message: vErr.Message}
		if vErr.Field != "" {
			body.Errors = map[string]string{vErr.Field: vErr.Message}
		}
		_ = rnd.JSON(w, http.StatusBadRequest, body)
	case errors.Is(err, services.ErrHasOrders):
		_ = rnd.JSON(w, http.StatusBadRequest, Message{Message: "Cannot delete a user that has orders."})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidTransition):
		_ = rnd.JSON(w, http.StatusBadRequest, Message{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		_ = rnd.JSON(w, http.StatusUnauthorized, Message{Message: "Invalid credentials."})
	case errors.Is(err, services.ErrUnauthorized):
		_ = rnd.JSON(w, http.StatusUnauthorized, Message{Message: "Authentication failed."})
	case errors.Is(err, services.ErrForbidden):
		_ = rnd.JSON(w, http.StatusForbidden, Message{Message: "You do not have permission to access this resource."})
	case errors.Is(err, services.ErrNotFound):
		_ = rnd.JSON(w, http.StatusNotFound, Message{Message: err.Error()})
	default:
		log.Printf("%s: %v", op, err)
		_ = rnd.JSON(w, http.StatusInternalServerError, Message{Message: "Internal server error."})
	}
}

func BadRequest(rnd *render.Render, w http.ResponseWriter, message string) {
	_ = rnd.JSON(w, http.StatusBadRequest, Message{Message: message})
}

// DecodeJSON reads a JSON request body into dst. Unknown fields are ignored.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return &services.ValidationError{Message: "Request body is required."}
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &services.ValidationError{Message: "Request body is required."}
		}
		return &services.ValidationError{Message: fmt.Sprintf("Invalid JSON body: %v", err)}
	}
	return nil
}

// PathID parses the {id} route variable.
func PathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &services.ValidationError{Field: "id", Message: fmt.Sprintf("invalid id %q.", raw)}
	}
	return uint(id), nil
}

// Paginated renders items under key alongside the paging counters.
func Paginated[T any](rnd *render.Render, w http.ResponseWriter, key string, items []T, total int64, p helpers.Pagination) {
	if items == nil {
		items = []T{}
	}
	_ = rnd.JSON(w, http.StatusOK, map[string]any{
		key:           items,
		"totalItems":  total,
		"totalPages":  p.TotalPages(total),
		"currentPage": p.Page,
	})
}
