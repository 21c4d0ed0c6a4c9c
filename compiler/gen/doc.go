// Package gen generates the artifacts of a record type from its field
// descriptors.
//
// # Artifacts
//
// For a record type Post with fields title:string,author_id:foreign the
// generator writes:
//
//	database/migrations/2026_10_18_120000_create_posts_table.go  migration source
//	internal/models/post.go                                      Post struct and PostStore
//	internal/handlers/post_handler.go                            PostHandler and PostRules
//	internal/routes/routes.go                                    handler registration
//
// and, when the matching features are enabled, graph/schema/post.graphql
// and web/src/types/post.ts. All locations are configurable.
//
// # Pipeline
//
// Generate validates the fields, renders every artifact concurrently into
// memory and then writes them one by one. Existing files are skipped
// unless the config forces overwriting; a migration is skipped only when
// another source already creates the table. Route registration inserts a
// line before the scaffold:routes marker and is skipped when the handler
// is already registered.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: Configuration errors
//   - GenerationError: Rendering and writing errors
//   - ValidationError: Fields that cannot be generated
//
// Example error handling:
//
//	art, err := g.Generate(ctx, "Post", fields)
//	if gen.IsValidationError(err) {
//	    // fix the field-spec
//	}
package gen
