//go:build tools

package tools

// Tool dependencies are tracked here with blank imports so go.mod pins them.
// Regenerate mocks with: go run github.com/vektra/mockery/v2
import (
	_ "github.com/vektra/mockery/v2"
)
