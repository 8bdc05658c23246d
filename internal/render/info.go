package render

import (
	"fmt"
	"io"
)

const usage = `xray takes snapshots ("xrays") of a directory tree and compares two of
them to show what changed in between.

HOW TO USE IT
Take an xray of a folder, for example where your programs are installed.
Install or remove something there, then take another xray of the same
folder. Comparing the two prints the folders and files that were added,
modified or removed.

  xray snapshot /opt/apps
  xray list
  xray compare 1 2

WHERE ARE THE XRAYS SAVED?
In the save directory from the config file (see "xray config list").
Change it with "xray config set-dir DIR"; the directory is created if
needed. The save directory is never part of its own xrays.

LISTING XRAYS
"xray list" only looks in the current save directory. Xrays written to a
previous save directory are not listed after it changes.

IGNORING PATHS
Patterns in gitignore syntax are read from the [filesystem] ignore list
of the config and from a .xrayignore file at the root of the captured
folder.
`

// Info prints the usage guide.
func Info(w io.Writer) {
	fmt.Fprint(w, usage)
}
