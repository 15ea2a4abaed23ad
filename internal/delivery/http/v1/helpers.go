package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// formOverhead is the body allowance for the text fields of a company form.
const formOverhead = 1 << 20

// bindError turns a gin binding failure into a client error.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.New(http.StatusRequestEntityTooLarge, "Request body too large", err)
	}
	return apperror.BadRequest("Invalid request body")
}

// readLogo returns nil when the request carries no logo part. Reading stops one
// byte past maxBytes so the size check can still reject the upload.
func readLogo(c *gin.Context, maxBytes int) (*domain.LogoUpload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, bindError(err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest("Could not read logo upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
	if err != nil {
		return nil, apperror.BadRequest("Could not read logo upload")
	}

	return &domain.LogoUpload{
		Filename:    fh.Filename,
		ClaimedMime: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func sendAttachment(c *gin.Context, file *domain.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func exportFormat(c *gin.Context) (domain.ExportFormat, error) {
	format, err := domain.ParseExportFormat(strings.ToLower(c.Query("format")))
	if err != nil {
		return "", apperror.BadRequest("format must be one of: xlsx, csv")
	}
	return format, nil
}
