// kanban-layout computes adaptive column widths and responsive layouts for
// kanban boards.
package main

import "github.com/antopolskiy/kanban-layout/cmd"

func main() {
	cmd.Execute()
}
