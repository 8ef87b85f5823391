// Package assets provides the page templates and stylesheets served by mdpages.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in pages)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # Page stylesheet
//	└── templates/
//	    └── {name}/
//	        ├── layout.html      # Shared "head" and "foot" definitions
//	        ├── editor.html      # Editing page
//	        ├── viewer.html      # Viewing page
//	        └── error.html       # Error page
//
// A custom directory may override any subset of these; missing assets fall
// back to the embedded ones. A page set is all-or-nothing: a directory that
// holds only some of the four templates is rejected.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
