package pluginmgr

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// manifestFilenames lists the filenames discover() looks for, in priority
// order, inside each plugin subdirectory. manifest.json always wins when
// both are present so an author can keep a YAML draft alongside a
// generated JSON without ambiguity.
func manifestFilenames(allowYAML bool) []string {
	if allowYAML {
		return []string{"manifest.json", "manifest.yaml", "manifest.yml"}
	}
	return []string{"manifest.json"}
}

// parseManifest decodes path into a types.Manifest, dispatching on
// extension. YAML support (gopkg.in/yaml.v3) exists for plugin authors who
// prefer to hand-write a manifest with comments; the wire format between
// daemon and plugin process is still pure JSON, unaffected by this choice.
func parseManifest(path string) (types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, err
	}
	var m types.Manifest
	if isYAML(path) {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	return m, err
}

func isYAML(path string) bool {
	n := len(path)
	return n >= 5 && (path[n-5:] == ".yaml") || n >= 4 && path[n-4:] == ".yml"
}
