// compileinfoprint is imported by commands for the side effect of printing
// their build information to os.Stderr on startup.
package compileinfoprint

import "github.com/carbocation/epiquark/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
