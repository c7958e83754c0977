package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles artifact naming under the results directory
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CSVPath returns the CSV artifact path for a question, e.g. Results/question1.csv
func (om *OutputManager) CSVPath(id string) string {
	return om.path(id, "", ".csv")
}

// ImagePath returns the chart path for a question. A non-empty suffix is joined
// with an underscore: question4a + line -> question4a_line.png
func (om *OutputManager) ImagePath(id, suffix string) string {
	return om.path(id, suffix, ".png")
}

// ManifestPath returns the path of the run manifest.
func (om *OutputManager) ManifestPath() string {
	return filepath.Join(om.BaseOutputDir, "manifest.json")
}

func (om *OutputManager) path(id, suffix, ext string) string {
	// Clean the id to remove any path separators
	name := filepath.Base(id)
	if suffix != "" {
		name += "_" + suffix
	}
	return filepath.Join(om.BaseOutputDir, name+ext)
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".png":
		return "png"
	case ".json":
		return "json"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// CheckOutputDir verifies the results directory exists and is a directory.
func (om *OutputManager) CheckOutputDir() error {
	info, err := os.Stat(om.BaseOutputDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", om.BaseOutputDir)
	}
	return nil
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
