package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeremiapane/resto-pos/utils"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

type UploadController struct {
	UploadDir string
	BaseURL   string
}

func NewUploadController() *UploadController {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &UploadController{
		UploadDir: filepath.Join("public", "uploads", "menus"),
		BaseURL:   baseURL,
	}
}

// UploadImage menerima gambar menu (JPEG/PNG/WebP, maks 5MB), menyimpannya
// dengan nama unik, dan mengembalikan URL publiknya.
func (uc *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}

	if fileHeader.Size > maxUploadSize {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file size too large, maximum 5MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	defer file.Close()

	// Sniff tipe konten dari isi file, bukan dari ekstensi
	head := make([]byte, 512)
	n, _ := file.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("invalid file type, only JPEG, PNG, and WebP are allowed"))
		return
	}

	if err := os.MkdirAll(uc.UploadDir, 0755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error creating upload directory"))
		return
	}

	originalName := strings.ReplaceAll(fileHeader.Filename, " ", "-")
	filename := fmt.Sprintf("%s-%s", uuid.New().String(), originalName)
	dst := filepath.Join(uc.UploadDir, filename)

	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving image"))
		return
	}

	publicURL := fmt.Sprintf("%s/uploads/menus/%s", uc.BaseURL, filename)

	utils.RespondJSON(c, http.StatusOK, "File uploaded", gin.H{
		"url": publicURL,
	})
}
