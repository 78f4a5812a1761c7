package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/middleware"
)

const uploadFolder = "tutoring_profiles"

// GenerateUploadSignature signs a direct browser upload of a profile
// picture. The resulting URL is saved through PUT /profile/me.
func GenerateUploadSignature(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	cloudinaryURL := config.Settings.CloudinaryURL
	if cloudinaryURL == "" {
		return errorMessage(c, fiber.StatusServiceUnavailable, "Uploads are not configured")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return err
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return err
	}
	secret, _ := parsedURL.User.Password()

	publicID := p.Role.String() + "_" + strconv.FormatUint(uint64(p.User.ID), 10) + "_" + uuid.NewString()
	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder:   uploadFolder,
		PublicID: publicID,
	})
	if err != nil {
		return err
	}
	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"signature":  signature,
		"timestamp":  timestamp,
		"api_key":    cld.Config.Cloud.APIKey,
		"cloud_name": cld.Config.Cloud.CloudName,
		"folder":     uploadFolder,
		"public_id":  publicID,
	})
}
