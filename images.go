package rudimedia

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an image, downscales it to maxImageWidth if wider,
// and re-encodes it as JPEG so oversized originals never travel to the
// backend. Returns the normalized filename and the encoded bytes.
func processImage(src io.Reader, originalName string) (string, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return slugifyFilename(originalName) + ".jpg", buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if s := Slugify(base); s != "" {
		return s
	}
	return "upload"
}

// handleImageUpload is the editor's asynchronous upload side-channel. It
// accepts one multipart image, downscales it, forwards it to the backend and
// answers with JSON the editor page consumes. The draft_session value is
// echoed back untouched so the page can drop late responses that belong to
// an edit session that is no longer open.
func (a *App) handleImageUpload(c echo.Context) error {
	sess := currentSession(c)
	draftSession := c.FormValue("draft_session")

	file, err := c.FormFile("image")
	if err != nil {
		return uploadFailure(c, http.StatusBadRequest, draftSession, "Kein Bild ausgewählt.")
	}
	if file.Size > maxUploadSize {
		return uploadFailure(c, http.StatusBadRequest, draftSession, "Datei zu groß (max. 10MB).")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	filename, data, err := processImage(src, file.Filename)
	if err != nil {
		return uploadFailure(c, http.StatusBadRequest, draftSession, "Ungültiges Bildformat.")
	}

	url, err := a.Editor.Upload(c.Request().Context(), sess.Token, filename, data)
	if err != nil {
		c.Logger().Errorf("image upload failed: %v", err)
		return uploadFailure(c, http.StatusBadGateway, draftSession, "Upload fehlgeschlagen. Bitte erneut versuchen.")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url":           url,
		"draft_session": draftSession,
	})
}

func uploadFailure(c echo.Context, code int, draftSession, msg string) error {
	return c.JSON(code, map[string]string{
		"error":         msg,
		"draft_session": draftSession,
	})
}
