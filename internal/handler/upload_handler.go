package handler

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// UploadImage 处理图片上传请求。除了检查 Content-Type，
// 还实际解码图片头，伪装成图片的文件会被拒绝。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file uploaded.")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	opened, err := file.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	_, _, err = image.DecodeConfig(opened)
	opened.Close()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Uploaded file is not a valid image")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		internalError(c, err)
		return
	}

	// 生成唯一文件名，避免覆盖已有文件
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, newFilename)); err != nil {
		internalError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"imagePath": path.Join(a.uploadURL, newFilename),
	})
}
