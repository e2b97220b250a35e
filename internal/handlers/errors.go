package handlers

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"course-service/internal/observability"
	"course-service/internal/repositories"
)

// Error kinds returned in the "kind" field of error responses.
const (
	KindUnauthorized   = "unauthorized"
	KindForbidden      = "forbidden"
	KindNotFound       = "not_found"
	KindInvalidRequest = "invalid_request"
	KindValidation     = "validation"
	KindConflict       = "conflict"
	KindStorage        = "storage"
	KindInternal       = "internal"
)

const notBlankTag = "notblank"

var translator ut.Translator

func init() {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(str) != ""
	})
	_ = v.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(ut.Translator, validator.FieldError) string { return "this field cannot be blank" },
	)
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": kind})
}

// respondBindError answers a failed ShouldBind*: field errors become a
// translated "fields" map, anything else is a malformed request.
func respondBindError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make(map[string]string, len(vErrs))
		for _, vErr := range vErrs {
			fields[vErr.Field()] = vErr.Translate(translator)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "kind": KindValidation, "fields": fields})
		return
	}
	respondError(c, http.StatusBadRequest, KindInvalidRequest, err.Error())
}

// respondRepoError maps repository errors onto HTTP responses.
func respondRepoError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrCourseNotFound),
		errors.Is(err, repositories.ErrHomeworkNotFound),
		errors.Is(err, repositories.ErrPracticeNotFound),
		errors.Is(err, repositories.ErrAnswerNotFound),
		errors.Is(err, repositories.ErrProgressNotFound):
		respondError(c, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, repositories.ErrUserExists):
		respondError(c, http.StatusConflict, KindConflict, err.Error())
	default:
		observability.LoggerFromContext(c.Request.Context()).Error(action, zap.Error(err))
		respondError(c, http.StatusInternalServerError, KindStorage, "failed to "+action)
	}
}
