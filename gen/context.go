package gen

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"metadesc"
	"metadesc/asciidoc"
)

// LoadEntityContext builds the run-wide entity context from an optional
// entities file, an optional attributes file, and build-time attribute
// overrides. Missing or unreadable files degrade gracefully with a warning
// so a run can proceed on brand-free documentation trees.
func LoadEntityContext(entitiesPath, attributesPath string, build map[string]string, logger *slog.Logger) (*metadesc.EntityContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := metadesc.NewEntityContext()
	for k, v := range build {
		ctx.Attributes[k] = v
	}

	if entitiesPath != "" {
		src, err := os.ReadFile(entitiesPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("entities file not found, brand checks disabled", "path", entitiesPath)
		case err != nil:
			logger.Warn("entities file unreadable, brand checks disabled", "path", entitiesPath, "error", err)
		default:
			ctx.Brands = metadesc.ParseEntities(string(src))
			logger.Debug("entities loaded", "path", entitiesPath, "count", len(ctx.Brands))
		}
	}

	if attributesPath != "" {
		src, err := os.ReadFile(attributesPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("attributes file not found, placeholder resolution limited to build attributes", "path", attributesPath)
		case err != nil:
			logger.Warn("attributes file unreadable, placeholder resolution limited to build attributes", "path", attributesPath, "error", err)
		default:
			attrs, unresolved := asciidoc.ParseAttributeFile(string(src), build)
			ctx.Attributes = attrs
			for _, name := range unresolved {
				logger.Warn("attribute left unresolved", "name", name, "value", attrs[name])
			}
			logger.Debug("attributes loaded", "path", attributesPath, "count", len(attrs))
		}
	}

	return ctx, nil
}
