package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests run from the project root so that logs/ and relative fixtures resolve the same way
	// as the server binary does. usage:
	//
	//   import (
	//     _ "liyu1981.xyz/ai-security-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
