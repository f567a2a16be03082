package admin

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/infinitystore/backend/app/handlers/respond"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/services"
	"github.com/shopspring/decimal"
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func formValue(r *http.Request, keys ...string) (string, bool) {
	for _, k := range keys {
		if vals, ok := r.MultipartForm.Value[k]; ok && len(vals) > 0 {
			return strings.TrimSpace(vals[0]), true
		}
	}
	return "", false
}

// productPatchFromForm reads the product fields present in a multipart form.
// Absent fields stay nil so updates only touch what was sent.
func productPatchFromForm(r *http.Request) (models.ProductPatch, error) {
	var patch models.ProductPatch

	if v, ok := formValue(r, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(r, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(r, "price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return patch, &services.ValidationError{Field: "price", Message: "price must be a number."}
		}
		patch.Price = &price
	}
	if v, ok := formValue(r, "stock"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return patch, &services.ValidationError{Field: "stock", Message: "stock must be a whole number."}
		}
		patch.Stock = &n
	}
	if v, ok := formValue(r, "category_id", "categoryId"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return patch, &services.ValidationError{Field: "category_id", Message: "category_id must be a numeric id."}
		}
		id := uint(n)
		patch.CategoryID = &id
	}
	if v, ok := formValue(r, "discount"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return patch, &services.ValidationError{Field: "discount", Message: "discount must be a whole number."}
		}
		patch.Discount = &n
	}
	for field, dst := range map[string]**bool{"active": &patch.Active, "offer": &patch.Offer} {
		if v, ok := formValue(r, field); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return patch, &services.ValidationError{Field: field, Message: field + " must be true or false."}
			}
			*dst = &b
		}
	}
	return patch, nil
}

// readProductPatch accepts either multipart/form-data with an optional
// "image" file or a JSON body. The returned path is the freshly stored image,
// if any, so the caller can discard it when the write fails.
func (h *AdminHandler) readProductPatch(w http.ResponseWriter, r *http.Request) (models.ProductPatch, string, error) {
	if !isMultipart(r) {
		var body struct {
			models.ProductPatch
			CategoryIDAlias *uint `json:"categoryId"`
		}
		if err := respond.DecodeJSON(r, &body); err != nil {
			return models.ProductPatch{}, "", err
		}
		patch := body.ProductPatch
		if patch.CategoryID == nil {
			patch.CategoryID = body.CategoryIDAlias
		}
		return patch, "", nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.ProductPatch{}, "", &services.ValidationError{Field: "image", Message: "image is too large."}
		}
		return models.ProductPatch{}, "", &services.ValidationError{Message: "Invalid multipart form."}
	}

	patch, err := productPatchFromForm(r)
	if err != nil {
		return patch, "", err
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return patch, "", nil
	}
	if err != nil {
		return patch, "", &services.ValidationError{Field: "image", Message: "could not read uploaded image."}
	}
	defer file.Close()

	path, err := h.uploads.Save(file, header)
	if err != nil {
		log.Printf("readProductPatch: failed to store upload %s: %v", header.Filename, err)
		return patch, "", &services.ValidationError{Field: "image", Message: err.Error()}
	}
	patch.ImagePath = &path
	return patch, path, nil
}

func (h *AdminHandler) discardUpload(path string) {
	if path == "" {
		return
	}
	if err := h.uploads.Remove(path); err != nil {
		log.Printf("discardUpload: failed to remove %s: %v", path, err)
	}
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	patch, uploaded, err := h.readProductPatch(w, r)
	if err != nil {
		respond.Error(h.render, w, "CreateProduct", err)
		return
	}

	product, err := h.products.Create(r.Context(), patch)
	if err != nil {
		h.discardUpload(uploaded)
		respond.Error(h.render, w, "CreateProduct", err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully.",
		"product": product,
	})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "UpdateProduct", err)
		return
	}

	patch, uploaded, err := h.readProductPatch(w, r)
	if err != nil {
		respond.Error(h.render, w, "UpdateProduct", err)
		return
	}

	product, err := h.products.Update(r.Context(), id, patch)
	if err != nil {
		h.discardUpload(uploaded)
		respond.Error(h.render, w, "UpdateProduct", err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully.",
		"product": product,
	})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r)
	if err != nil {
		respond.Error(h.render, w, "DeleteProduct", err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respond.Error(h.render, w, "DeleteProduct", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, respond.Message{Message: "Product deactivated successfully."})
}
