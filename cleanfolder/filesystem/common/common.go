package common

// This package contains shared utilities and types used across filesystem packages.
// It provides the typed error taxonomy, path validation and pass metrics.
