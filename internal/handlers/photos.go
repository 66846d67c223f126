package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"propshot-backend/internal/models"
	"propshot-backend/internal/supabase"
)

// Photos larger than this are rejected before hitting storage.
const maxPhotoSize = 50 << 20 // 50 MB

type PhotosHandler struct {
	dbClient       *supabase.DatabaseClient
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
}

func NewPhotosHandler(dbClient *supabase.DatabaseClient, storageClient *supabase.StorageClient, realtimeClient *supabase.RealtimeClient) *PhotosHandler {
	return &PhotosHandler{
		dbClient:       dbClient,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
	}
}

// Upload godoc
// @Summary     Upload photos to an order
// @Description Accepts multipart form files under the "photos" field, stores them under photos/{userID}/{timestamp}.{ext} and creates a photo record per file. The order's photo count is kept equal to its photo rows. A per-file failure is reported without failing the sibling files.
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Param       photos formData file true "Photo files"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/photos [post]
func (h *PhotosHandler) Upload(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	// Ownership check before touching storage.
	order, err := h.dbClient.GetOrder(orderID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no photos provided"})
		return
	}

	var photos []models.PhotoResponse
	var uploadErrors []string

	for _, fileHeader := range files {
		if fileHeader.Size > maxPhotoSize {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: file too large", fileHeader.Filename))
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		storagePath, storageURL, err := h.storageClient.UploadPhoto(userID, fileHeader.Filename, data)
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		photo := &models.Photo{
			ID:               uuid.New(),
			OrderID:          order.ID,
			StoragePath:      storagePath,
			Status:           models.PhotoStatusProcessing,
			OriginalFilename: fileHeader.Filename,
		}
		if err := h.dbClient.CreatePhoto(photo); err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		photos = append(photos, models.PhotoResponse{
			ID:               photo.ID.String(),
			StoragePath:      storagePath,
			StorageURL:       storageURL,
			Status:           photo.Status,
			OriginalFilename: photo.OriginalFilename,
		})
	}

	photoCount, err := h.dbClient.SyncPhotoCount(order.ID)
	if err != nil {
		photoCount = order.PhotoCount
	}

	h.realtimeClient.PublishOrderEvent(order.ID, "photos_uploaded",
		supabase.PhotosUploadedPayload(order.ID, photoCount))

	c.JSON(http.StatusOK, models.UploadResponse{
		OrderID:    order.ID.String(),
		Photos:     photos,
		PhotoCount: photoCount,
		Errors:     uploadErrors,
	})
}

// List godoc
// @Summary     List photos of an order
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {array} models.PhotoResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/photos [get]
func (h *PhotosHandler) List(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "order_id")
	if !ok {
		return
	}

	if _, err := h.dbClient.GetOrder(orderID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "order not found",
			Message: err.Error(),
		})
		return
	}

	photos, err := h.dbClient.GetPhotos(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list photos",
			Message: err.Error(),
		})
		return
	}

	responses := make([]models.PhotoResponse, len(photos))
	for i, photo := range photos {
		responses[i] = models.PhotoResponse{
			ID:               photo.ID.String(),
			StoragePath:      photo.StoragePath,
			StorageURL:       h.storageClient.GetPublicURL(photo.StoragePath),
			Status:           photo.Status,
			OriginalFilename: photo.OriginalFilename,
			CreatedAt:        photo.CreatedAt,
		}
		if photo.EditedPath.Valid {
			responses[i].EditedURL = h.storageClient.GetPublicURL(photo.EditedPath.String)
		}
	}

	c.JSON(http.StatusOK, responses)
}
