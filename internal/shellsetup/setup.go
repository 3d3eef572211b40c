// Package shellsetup prints shell functions that change the shell's working
// directory to wherever the browser was left.
package shellsetup

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// FunctionName is the name of the generated shell function.
const FunctionName = "rb"

// ErrUnsupportedShell is returned for shells without a template.
var ErrUnsupportedShell = errors.New("unsupported shell")

const posixTemplate = `%[1]s() {
    local tmp dest
    tmp=$(mktemp "${TMPDIR:-/tmp}/rbrowse.XXXXXX") || return
    command %[2]s --cd-file "$tmp" "$@"
    dest=$(cat "$tmp" 2>/dev/null)
    rm -f "$tmp"
    if [ -n "$dest" ] && [ -d "$dest" ]; then
        cd "$dest"
    fi
}
`

const fishTemplate = `function %[1]s
    set -l tmp (mktemp)
    or return
    command %[2]s --cd-file $tmp $argv
    set -l dest (cat $tmp 2>/dev/null)
    rm -f $tmp
    if test -n "$dest" -a -d "$dest"
        builtin cd $dest
    end
end
`

const pwshTemplate = `function %[1]s {
    $tmp = New-TemporaryFile
    try {
        & %[2]s --cd-file $tmp.FullName @args
        $dest = (Get-Content $tmp.FullName -Raw -ErrorAction SilentlyContinue)
        if ($dest -and (Test-Path $dest.Trim() -PathType Container)) {
            Set-Location $dest.Trim()
        }
    } finally {
        Remove-Item $tmp.FullName -ErrorAction SilentlyContinue
    }
}
`

// Write prints the integration function for shell. exe is the path of the
// rbrowse binary.
func Write(w io.Writer, shell, exe string) error {
	var tmpl, quoted string
	switch Normalize(shell) {
	case "bash", "zsh", "sh", "ksh", "dash":
		tmpl = posixTemplate
		quoted = "'" + strings.ReplaceAll(exe, "'", `'\''`) + "'"
	case "fish":
		tmpl = fishTemplate
		quoted = "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(exe) + "'"
	case "pwsh":
		tmpl = pwshTemplate
		quoted = "'" + strings.ReplaceAll(exe, "'", "''") + "'"
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedShell, shell)
	}
	_, err := fmt.Fprintf(w, tmpl, FunctionName, quoted)
	return err
}

// Detect guesses the user's shell from the environment.
func Detect(goos string, getenv func(string) string) string {
	if shell := Normalize(getenv("SHELL")); shell != "" {
		return shell
	}
	if strings.EqualFold(goos, "windows") {
		return "pwsh"
	}
	return "bash"
}

// Normalize reduces a shell path or command line such as
// `"C:\Program Files\PowerShell\pwsh.exe" -NoLogo` to its base name.
func Normalize(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case value[0] == '"' || value[0] == '\'':
		quote := value[0]
		value = value[1:]
		if idx := strings.IndexByte(value, quote); idx >= 0 {
			value = value[:idx]
		}
	default:
		if idx := strings.IndexAny(value, " \t"); idx >= 0 {
			value = value[:idx]
		}
	}

	base := path.Base(strings.ReplaceAll(value, "\\", "/"))
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	if base == "powershell" {
		return "pwsh"
	}
	return base
}
