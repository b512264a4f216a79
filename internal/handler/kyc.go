package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nomadlink/internal/models"
	"nomadlink/internal/service"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/middleware"
	"nomadlink/pkg/response"
)

func (h *Handlers) handleGetKYC(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	kyc, err := h.kyc.GetOrCreate(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, kycView(kyc, user.IsStaff))
}

func (h *Handlers) handleUpdateKYC(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in service.KYCUpdate
	if v, ok := c.GetPostForm("full_name"); ok {
		in.FullName = &v
	}
	if v, ok := c.GetPostForm("id_type"); ok {
		in.IDType = &v
	}
	if v, ok := c.GetPostForm("date_of_birth"); ok {
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "invalid date_of_birth")
			return
		}
		in.DateOfBirth = &dob
	}

	for field, target := range map[string]**service.Upload{
		"id_document":  &in.IDDocument,
		"selfie_photo": &in.Selfie,
	} {
		file, err := c.FormFile(field)
		if err != nil {
			continue
		}
		reader, err := file.Open()
		if err != nil {
			response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "could not read uploaded file")
			return
		}
		defer reader.Close()
		*target = &service.Upload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Reader:      reader,
		}
	}

	kyc, err := h.kyc.Update(c.Request.Context(), user.ID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, kycView(kyc, user.IsStaff))
}

func (h *Handlers) handleVerifyKYC(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "invalid user id")
		return
	}

	var in struct {
		ReviewStatus string `json:"review_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "review_status is required")
		return
	}

	kyc, verifyErr := h.kyc.Verify(c.Request.Context(), uint(userID), in.ReviewStatus)
	if verifyErr != nil {
		writeError(c, verifyErr)
		return
	}

	response.Success(c, gin.H{
		"message":       "KYC reviewed",
		"user":          kyc.UserID,
		"review_status": kyc.ReviewStatus,
		"verified":      kyc.IsVerified,
	})
}

// kycView hides the review fields from non-staff callers.
func kycView(kyc *models.KYC, staff bool) gin.H {
	view := gin.H{
		"id":            kyc.ID,
		"user":          kyc.UserID,
		"full_name":     kyc.FullName,
		"date_of_birth": kyc.DateOfBirth,
		"id_type":       kyc.IDType,
		"id_document":   kyc.IDDocumentKey,
		"selfie_photo":  kyc.SelfieKey,
		"level":         kyc.Level,
		"submitted_at":  kyc.SubmittedAt,
	}
	if staff {
		view["review_status"] = kyc.ReviewStatus
		view["reviewed_at"] = kyc.ReviewedAt
		view["is_verified"] = kyc.IsVerified
	}
	return view
}
