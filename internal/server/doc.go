// Package server is the HTTP surface of mdpages.
//
// Routes:
//
//	GET    /                           editor, or viewer/error page with ?content=
//	GET    /api/sessions/{id}          session state as JSON
//	POST   /api/sessions/{id}/content  replace the document (text/plain body)
//	POST   /api/sessions/{id}/share    share URL for the current document
//	DELETE /api/sessions/{id}          tear the session down
//	POST   /api/faults/{id}            client-side fault for a session
//	GET    /export.pdf?content=        shared document as PDF (when enabled)
//	GET    /assets/style.css           page stylesheet
//	GET    /assets/highlight.css       code highlighting stylesheet
//	GET    /healthz                    liveness and service readiness
package server
