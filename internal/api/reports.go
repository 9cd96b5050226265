package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"proforma/internal/export"
	"proforma/internal/models"
	"proforma/internal/proforma"
	"proforma/internal/sharing"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// GetReport renders the queried proforma as an HTML page
func (h *Handler) GetReport(c *gin.Context) {
	result := proforma.Calculate(sharing.Decode(c.Request.URL.Query()))

	page, err := export.HTML(result, h.shareLink(result.Input))
	if err != nil {
		h.logger.WithError(err).Error("Failed to render report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// GetWorkbook returns the queried proforma as an xlsx download
func (h *Handler) GetWorkbook(c *gin.Context) {
	result := proforma.Calculate(sharing.Decode(c.Request.URL.Query()))

	data, err := export.Workbook(result)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, workbookFilename(result.Input)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// shareLink is best effort; a misconfigured base only drops the link
func (h *Handler) shareLink(in models.Input) string {
	link, err := sharing.ShareURL(h.shareBaseURL, in)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to build share URL for report")
		return ""
	}
	return link
}

func workbookFilename(in models.Input) string {
	slug := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(in.PropertyAddress), "-"), "-")
	if slug == "" {
		return "proforma.xlsx"
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return "proforma-" + slug + ".xlsx"
}
