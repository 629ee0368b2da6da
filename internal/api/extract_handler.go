package api

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"resumeStudio/internal/api/middleware"
	"resumeStudio/internal/metrics"
)

// ExtractHandler 接收简历截图并返回检测到的版式描述。
// 版式检测由外部模型完成，这里返回的是固定的检测结果结构。
type ExtractHandler struct {
	ClamdAddr   string
	MaxBytes    int64
	AllowedMIME []string
	RateCounter redisRateCounter
	DailyLimit  int
}

// NewExtractHandler 返回 ExtractHandler。rateCounter 为 nil 时不做限流。
func NewExtractHandler(clamdAddr string, maxBytes int64, allowedMIME []string, rateCounter redisRateCounter, dailyLimit int) *ExtractHandler {
	return &ExtractHandler{
		ClamdAddr:   clamdAddr,
		MaxBytes:    maxBytes,
		AllowedMIME: allowedMIME,
		RateCounter: rateCounter,
		DailyLimit:  dailyLimit,
	}
}

type extractedFontFamily struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type extractedFontSize struct {
	Name         string `json:"name"`
	SectionTitle string `json:"sectionTitle"`
	Heading      string `json:"heading"`
	Body         string `json:"body"`
}

type extractedColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Text      string `json:"text"`
	Accent    string `json:"accent"`
}

type extractedSpacing struct {
	SectionGap string `json:"sectionGap"`
	ItemGap    string `json:"itemGap"`
}

type extractedStyle struct {
	FontFamily extractedFontFamily `json:"fontFamily"`
	FontSize   extractedFontSize   `json:"fontSize"`
	Colors     extractedColors     `json:"colors"`
	Spacing    extractedSpacing    `json:"spacing"`
	Columns    int                 `json:"columns"`
}

type extractedPosition struct {
	Column int `json:"column"`
	Order  int `json:"order"`
}

type extractedSection struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Position  extractedPosition `json:"position"`
	Structure map[string]any    `json:"structure"`
}

type extractedLayout struct {
	Template struct {
		Style  extractedStyle `json:"style"`
		Layout struct {
			Sections []extractedSection `json:"sections"`
		} `json:"layout"`
	} `json:"template"`
	SuggestedTemplate string `json:"suggestedTemplate"`
}

func detectedLayout() extractedLayout {
	var out extractedLayout
	out.Template.Style = extractedStyle{
		FontFamily: extractedFontFamily{Heading: "Inter", Body: "Inter"},
		FontSize:   extractedFontSize{Name: "32px", SectionTitle: "20px", Heading: "16px", Body: "14px"},
		Colors:     extractedColors{Primary: "#0F766E", Secondary: "#134E4A", Text: "#111827", Accent: "#F3F4F6"},
		Spacing:    extractedSpacing{SectionGap: "2rem", ItemGap: "1rem"},
		Columns:    2,
	}
	out.Template.Layout.Sections = []extractedSection{
		{ID: "header", Type: "header", Position: extractedPosition{Column: 2, Order: 1},
			Structure: map[string]any{"hasPhoto": false, "alignment": "left", "style": "stacked"}},
		{ID: "summary", Type: "summary", Position: extractedPosition{Column: 2, Order: 2},
			Structure: map[string]any{"format": "paragraph"}},
		{ID: "experience", Type: "experience", Position: extractedPosition{Column: 2, Order: 3},
			Structure: map[string]any{"format": "timeline", "hasIcons": false, "bulletStyle": "disc"}},
		{ID: "education", Type: "education", Position: extractedPosition{Column: 2, Order: 4},
			Structure: map[string]any{"format": "standard", "hasGPA": true}},
		{ID: "skills", Type: "skills", Position: extractedPosition{Column: 1, Order: 1},
			Structure: map[string]any{"format": "tags", "style": "rounded", "hasRatings": false}},
		{ID: "languages", Type: "languages", Position: extractedPosition{Column: 1, Order: 2},
			Structure: map[string]any{"format": "inline", "hasLevels": true}},
	}
	out.SuggestedTemplate = "modern-teal"
	return out
}

// Extract 校验上传的截图并返回检测到的版式。
func (h *ExtractHandler) Extract(c *gin.Context) {
	log := middleware.LoggerFromContext(c)

	if !strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data") {
		metrics.ObserveExtract("bad_request")
		BadRequest(c, "Invalid content type")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		metrics.ObserveExtract("bad_request")
		BadRequest(c, "No image provided")
		return
	}
	if h.MaxBytes > 0 && file.Size > h.MaxBytes {
		metrics.ObserveExtract("bad_request")
		BadRequest(c, "Image is too large")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if len(h.AllowedMIME) > 0 && !slices.Contains(h.AllowedMIME, contentType) {
		metrics.ObserveExtract("bad_request")
		BadRequest(c, "Unsupported image type")
		return
	}

	if h.RateCounter != nil && h.DailyLimit > 0 {
		key := dailyKey("extract:limit", c.ClientIP(), time.Now())
		count, err := incrWithTTL(c.Request.Context(), h.RateCounter, key, 24*time.Hour)
		if err != nil {
			log.Warn("extract rate limit check failed", slog.Any("error", err))
		}
		if count > int64(h.DailyLimit) {
			metrics.ObserveExtract("rate_limited")
			TooManyRequests(c, "Daily extraction limit reached")
			return
		}
	}

	if h.ClamdAddr != "" {
		clean, err := h.scan(c, file)
		if err != nil {
			log.Error("scan image", slog.Any("error", err))
			metrics.ObserveExtract("error")
			Internal(c, "Error analyzing resume layout")
			return
		}
		if !clean {
			metrics.ObserveExtract("rejected")
			BadRequest(c, "malicious file detected")
			return
		}
	}

	metrics.ObserveExtract("ok")
	c.JSON(http.StatusOK, detectedLayout())
}

func (h *ExtractHandler) scan(c *gin.Context, file *multipart.FileHeader) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, fmt.Errorf("open image: %w", err)
	}
	defer reader.Close()

	abort := make(chan bool)
	defer close(abort)

	results, err := clamd.NewClamd(h.ClamdAddr).ScanStream(reader, abort)
	if err != nil {
		return false, fmt.Errorf("scan stream: %w", err)
	}
	clean := true
	for result := range results {
		if result.Status != clamd.RES_OK {
			middleware.LoggerFromContext(c).Warn("clamd rejected upload", slog.String("status", result.Status), slog.String("description", result.Description))
			clean = false
		}
	}
	return clean, nil
}
