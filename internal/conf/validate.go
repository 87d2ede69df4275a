package conf

import (
	"github.com/semantika/orgforge/internal/errors"
)

// ValidateSettings checks the loaded settings for values that would make the
// application misbehave at runtime rather than fail fast at startup.
func ValidateSettings(settings *Settings) error {
	if settings.Server.Port < 1 || settings.Server.Port > 65535 {
		return errors.Newf("server port %d out of range", settings.Server.Port).
			Category(errors.CategoryValidation).
			Context("port", settings.Server.Port).
			Build()
	}

	if settings.Wikidata.Endpoint == "" {
		return errors.Newf("wikidata endpoint must not be empty").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Wikidata.SearchLimit < 1 {
		return errors.Newf("wikidata search limit must be at least 1, got %d", settings.Wikidata.SearchLimit).
			Category(errors.CategoryValidation).
			Context("searchlimit", settings.Wikidata.SearchLimit).
			Build()
	}

	if settings.Registry.Endpoint == "" {
		return errors.Newf("registry endpoint must not be empty").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Registry.PageSize < 1 {
		return errors.Newf("registry page size must be at least 1, got %d", settings.Registry.PageSize).
			Category(errors.CategoryValidation).
			Context("pagesize", settings.Registry.PageSize).
			Build()
	}

	if settings.Mistral.Temperature < 0 || settings.Mistral.Temperature > 2 {
		return errors.Newf("mistral temperature %.2f out of range [0, 2]", settings.Mistral.Temperature).
			Category(errors.CategoryValidation).
			Context("temperature", settings.Mistral.Temperature).
			Build()
	}

	return nil
}
