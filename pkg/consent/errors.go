package consent

import "errors"

var (
	// ErrNoConsent indicates the consent record cookie is not set.
	ErrNoConsent = errors.New("consent.no_record")

	// ErrMalformedRecord indicates the consent record cookie could not be parsed.
	ErrMalformedRecord = errors.New("consent.malformed_record")

	// ErrInvalidManifest indicates a manifest failed validation.
	ErrInvalidManifest = errors.New("consent.invalid_manifest")

	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = errors.New("consent.manifest_not_found")

	// ErrMissingCollaborator indicates an expected page element is not configured.
	ErrMissingCollaborator = errors.New("consent.missing_collaborator")

	// ErrInvalidForm indicates the preferences form could not be parsed.
	ErrInvalidForm = errors.New("consent.invalid_form")
)
