// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"kelurahan/complaints-api/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("complaint_status", validateComplaintStatus)
		_ = v.RegisterValidation("complaint_priority", validateComplaintPriority)
	}
}

func validateComplaintStatus(fl validator.FieldLevel) bool {
	return models.Status(fl.Field().String()).Valid()
}

func validateComplaintPriority(fl validator.FieldLevel) bool {
	return models.Priority(fl.Field().String()).Valid()
}
