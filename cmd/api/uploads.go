package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const maxDocumentSize = 10 << 20 // 10mb

// uploadToCloudinary pushes a file into the given folder under a controlled
// public ID and returns the hosted URL.
func (app *application) uploadToCloudinary(r io.Reader, folder, publicID string) (string, error) {
	// external call; not tied to the request so a slow client cannot abort a
	// finished upload mid-flight
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := app.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:    folder,
		PublicID:  publicID,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	return resp.SecureURL, nil
}

// uploadDocumentHandler accepts one multipart file under the "document" field
// and stores it for the stage-4 submission. The response URL goes back into
// the documents payload.
//
//	@Summary		Uploads a verification document
//	@Tags			onboarding
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			document	formData	file	true	"Document file"
//	@Success		201			{object}	map[string]string
//	@Failure		400			{object}	error
//	@Router			/vendor/onboarding/documents/upload [post]
func (app *application) uploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	claims := getSessionFromContext(r)

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		app.badRequestResponse(w, r, errors.New("document exceeds the 10mb limit"))
		return
	}

	file, _, err := r.FormFile("document")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("document file is required"))
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("vendor_%s_doc_%d", claims.VendorID, time.Now().UnixNano())
	url, err := app.uploadToCloudinary(file, "vendor_documents", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}
