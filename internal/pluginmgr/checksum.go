package pluginmgr

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// checksumManifest is the shape of checksums.json: a map from file path
// (relative to the plugin directory) to its recorded hex digest.
type checksumManifest map[string]string

func loadChecksums(path string) (checksumManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cm checksumManifest
	if err := json.Unmarshal(data, &cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// verify checks every file named in checksums.json against its recorded
// digest. Per spec §4.2, a mismatch never refuses the load -- it only
// downgrades the result to Modified, carrying the list of files that
// changed.
func verify(dir, checksumsPath string) (types.VerifyStatus, []string) {
	cm, err := loadChecksums(checksumsPath)
	if err != nil {
		return types.VerifyUnknown, nil
	}

	var modified []string
	for rel, want := range cm {
		got, err := hashFile(filepath.Join(dir, rel))
		if err != nil || got != want {
			modified = append(modified, rel)
		}
	}
	if len(modified) > 0 {
		return types.VerifyModified, modified
	}
	return types.VerifyVerified, nil
}
