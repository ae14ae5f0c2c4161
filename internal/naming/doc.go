// Package naming maps arbitrary entity names onto identifier-safe strings
// and checks the results against the naming rules of the systems they are
// submitted to (S3 buckets, Kubernetes objects, ingress paths).
//
// Sanitize is total and never rejects input. Checking that a sanitized name
// is acceptable to a destination is a separate step: callers run the
// Validate* helpers before handing manifests to a provisioning engine.
package naming
