package cmdutil

import (
	"fmt"
	"io"

	"github.com/NexusGPU/couchgo/internal/tui"
)

// Renderable can render itself as JSON or as styled text
type Renderable interface {
	RenderJSON() any
	RenderTUI(w io.Writer)
}

// Render writes r in the output's format
func Render(out *tui.Output, r Renderable) error {
	return out.Print(r.RenderJSON(), r.RenderTUI)
}

// PanelData is a titled key/value panel
type PanelData struct {
	Title string
	Panel *tui.Panel
	JSON  any
}

func (p *PanelData) RenderJSON() any {
	return p.JSON
}

func (p *PanelData) RenderTUI(w io.Writer) {
	if p.Title != "" {
		fmt.Fprintln(w, tui.Title(p.Title))
	}
	fmt.Fprint(w, p.Panel.String())
}

// ActionData is the result of a command that changes state
type ActionData struct {
	Success bool
	Message string
	Path    string
}

func (a *ActionData) RenderJSON() any {
	return tui.NewActionResult(a.Success, a.Message, a.Path)
}

func (a *ActionData) RenderTUI(w io.Writer) {
	if a.Success {
		fmt.Fprintln(w, tui.SuccessMessage(a.Message))
	} else {
		fmt.Fprintln(w, tui.ErrorMessage(a.Message))
	}
}
