// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"procrun-cli/internal/config"
	"procrun-cli/internal/issue"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// printDiagnostic writes err to stderr after prefix. In verbose mode the
// catalog entry linked to the error, if any, is rendered below it.
func (a *App) printDiagnostic(prefix string, err error) {
	verbose := a.isVerbose()
	fmt.Fprintln(a.stderr, prefix+formatErrorForDisplay(err, verbose))

	if !verbose {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	entry := issue.Get(ae.Issue)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(glamourStyle(a.cfg.UI.ColorScheme))
	if renderErr != nil {
		a.logger.Debug("cannot render issue", "id", ae.Issue, "error", renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// printError reports a failed operation.
func (a *App) printError(err error) {
	a.printDiagnostic(ErrorStyle.Render("Error: "), err)
}

// glamourStyle maps the configured color scheme to a glamour standard style.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return styles.DarkStyle
	case config.ColorSchemeLight:
		return styles.LightStyle
	default:
		if lipgloss.HasDarkBackground() {
			return styles.DarkStyle
		}
		return styles.LightStyle
	}
}
