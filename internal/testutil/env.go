// AngelaMos | 2026
// env.go

package testutil

import "os"

var getenv = os.Getenv
