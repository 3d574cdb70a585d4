package rpc

import "github.com/hamr-launcher/hamrd/internal/engine"

// encodeUpdate turns an engine.Update into the notification method/params
// pair sent to the active UI. Internal-only updates (engine.IsInternal)
// never reach here -- the server filters them before calling this.
func encodeUpdate(u engine.Update) (string, any) {
	switch u := u.(type) {
	case engine.Results:
		return "results", u
	case engine.ResultsUpdate:
		return "resultsUpdate", u
	case engine.Card:
		return "card", u
	case engine.Form:
		return "form", u
	case engine.PluginActivated:
		return "pluginActivated", u
	case engine.PluginDeactivated:
		return "pluginDeactivated", u
	case engine.Busy:
		return "busy", u
	case engine.Error:
		return "error", u
	case engine.Prompt:
		return "prompt", u
	case engine.Placeholder:
		return "placeholder", u
	case engine.Execute:
		return "execute", u
	case engine.Close:
		return "close", u
	case engine.Show:
		return "show", u
	case engine.Toggle:
		return "toggle", u
	case engine.ClearInput:
		return "clearInput", u
	case engine.InputModeChanged:
		return "inputModeChanged", u
	case engine.ContextChanged:
		return "contextChanged", u
	case engine.PluginStatusUpdate:
		return "pluginStatusUpdate", u
	case engine.AmbientUpdate:
		return "ambientUpdate", u
	case engine.FabUpdate:
		return "fabUpdate", u
	case engine.ImageBrowser:
		return "imageBrowser", u
	case engine.GridBrowser:
		return "gridBrowser", u
	case engine.PluginActionsUpdate:
		return "pluginActionsUpdate", u
	case engine.NavigationDepthChanged:
		return "navigationDepthChanged", u
	case engine.NavigateForward:
		return "navigateForward", u
	case engine.NavigateBack:
		return "navigateBack", u
	case engine.ConfigReloaded:
		return "configReloaded", u
	case engine.PluginManagementChanged:
		return "pluginManagementChanged", u
	default:
		return "", nil
	}
}
