package api

import (
	"strings"
	"unicode/utf8"

	"resumeStudio/internal/storage"
)

// isValidExportObjectKey 确认对象键位于该模板自己的导出目录下，且不含路径穿越。
func isValidExportObjectKey(templateID uint, key string) bool {
	if key == "" || !utf8.ValidString(key) {
		return false
	}
	if !strings.HasPrefix(key, storage.ExportPrefix(templateID)) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	if len(key) > 200 {
		return false
	}
	return strings.HasSuffix(strings.ToLower(key), ".json")
}
