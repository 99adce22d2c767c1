package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hashjamm/portfolio/internal/assets"
	"github.com/hashjamm/portfolio/internal/content"
	"github.com/hashjamm/portfolio/internal/diagram"
	"github.com/hashjamm/portfolio/internal/uistate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate bundled content",
	Long: `check loads the project data, validates every architecture diagram and
reports images that are missing from the public directory. It also walks every
overlay a project page offers and checks that closing it returns to the page.
It exits non-zero when a diagram or an overlay round trip is invalid. Missing
images are reported but tolerated since the site falls back to a placeholder.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	store, err := content.Default()
	if err != nil {
		return err
	}
	if _, err := content.DefaultProfile(); err != nil {
		return err
	}

	res := assets.NewResolver(appConfig.ImagesDir(), "/images", appConfig.PlaceholderImage)
	invalid := 0
	for _, p := range store.All() {
		if p.HasDiagram() {
			if err := diagram.Validate(p.Detail.Architecture.Diagram); err != nil {
				invalid++
				fmt.Fprintf(out, "%s: diagram: %v\n", p.ID, err)
			}
		}
		if err := overlayRoundTrip(p); err != nil {
			invalid++
			fmt.Fprintf(out, "%s: overlay: %v\n", p.ID, err)
		}
		refs := append([]string{p.Image}, p.Gallery...)
		for _, ref := range res.Missing(refs...) {
			fmt.Fprintf(out, "%s: missing image %s\n", p.ID, ref)
		}
	}

	fmt.Fprintf(out, "%d projects checked\n", store.Len())
	if invalid > 0 {
		return fmt.Errorf("%d content problems", invalid)
	}
	return nil
}

// overlayRoundTrip opens each overlay of the project page, steps through the
// gallery and closes again, expecting to land back on the plain page.
func overlayRoundTrip(p content.Project) error {
	start := "/projects/" + p.ID
	h := uistate.NewHistory(start)

	if p.HasDiagram() {
		h.Apply(h.Location().OpenDiagram())
		h.Apply(h.Location().Close())
	}
	if n := len(p.Gallery); n > 0 {
		h.Apply(h.Location().OpenImage(0))
		for range n {
			h.Apply(h.Location().NextImage(n))
		}
		if got := h.Location().State().Image; got != 0 {
			return fmt.Errorf("gallery of %d wrapped to image %d", n, got)
		}
		h.Apply(h.Location().Close())
	}
	h.Apply(h.Location().OpenMenu())
	h.Apply(h.Location().Close())

	if h.Current() != start || h.Len() != 1 {
		return fmt.Errorf("closing overlays left %s with %d entries", h.Current(), h.Len())
	}
	return nil
}
