package config

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/okcodes/tauri-updater/internal/domain/release"
)

var (
	// errRepositoryFormat is returned when the repository is not an owner/repo slug.
	errRepositoryFormat = errors.New("must have the format owner/repo")
	// errUpdaterName is returned for manifest names without a stem or a .json extension.
	errUpdaterName = errors.New("must be a valid file name with the .json extension")
	// errPubDate is returned for publish dates that are not ISO 8601 timestamps.
	errPubDate = errors.New("must be an ISO 8601 timestamp such as 2020-06-22T19:25:57Z")
	// errTemplatePlaceholder is returned for URL templates lacking the asset name placeholder.
	errTemplatePlaceholder = fmt.Errorf("must include the %q placeholder", release.AssetNamePlaceholder)
)

// Validate checks every input and returns an error wrapping ErrInvalidInput on the first pass that fails.
// Call ApplyDefaults first.
func Validate(c *Config) error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required.Error("GITHUB_TOKEN is required")),
		validation.Field(&c.Repository,
			validation.Required.Error("GITHUB_REPOSITORY is required"),
			validation.By(validateRepository),
		),
		validation.Field(&c.ReleaseID, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.AppVersion, validation.Required),
		validation.Field(&c.PubDate, validation.Required, validation.By(validatePubDate)),
		validation.Field(&c.UpdaterName, validation.Required, validation.By(validateUpdaterName)),
		validation.Field(&c.UpdaterURLTemplate, validation.By(validateURLTemplate)),
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.LogFormat, validation.In("console", "json")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return nil
}

func validateRepository(value any) error {
	repository, _ := value.(string)
	if repository == "" {
		return nil
	}

	owner, repo, found := strings.Cut(repository, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return errRepositoryFormat
	}

	return nil
}

func validateUpdaterName(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}

	stem, found := strings.CutSuffix(name, ManifestExtension)
	if !found || stem == "" || strings.ContainsAny(name, `/\`) {
		return errUpdaterName
	}

	return nil
}

func validatePubDate(value any) error {
	pubDate, _ := value.(string)
	if pubDate == "" {
		return nil
	}

	if _, ok := ParsePubDate(pubDate); !ok {
		return errPubDate
	}

	return nil
}

// validateURLTemplate rejects non-empty templates that do not reference the asset name.
func validateURLTemplate(value any) error {
	template, _ := value.(string)
	if template == "" || release.HasPlaceholder(template) {
		return nil
	}

	return errTemplatePlaceholder
}
