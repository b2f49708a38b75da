package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"

	"github.com/miu200521358/pose-kinetic/pkg/mlog"
	"github.com/miu200521358/pose-kinetic/pkg/model"
)

func GetJSONFilePaths(dirPath string, suffix string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && info.IsDir() {
			// 直下だけ参照
			return filepath.SkipDir
		}
		if !info.IsDir() && (strings.HasSuffix(info.Name(), fmt.Sprintf("%s.json", suffix))) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func NewProgressBar(total int) *pb.ProgressBar {
	// プログレスバーのカスタムテンプレートを設定
	template := `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

	bar := pb.ProgressBarTemplate(template).Start(total)

	return bar
}

func WriteRotationFrames(allRotations []*model.RotationFrames, dirPath, logPrefix string) error {
	errCh := make(chan error, len(allRotations))
	var wg sync.WaitGroup

	for i, rotations := range allRotations {
		wg.Add(1)
		go func(i int, rotations *model.RotationFrames) {
			defer mlog.I("Output %s [%d/%d] ...", logPrefix, i+1, len(allRotations))
			defer wg.Done()

			path := filepath.Join(dirPath, filepath.Base(rotations.Path))
			f, err := os.Create(path)
			if err != nil {
				mlog.E("[%s] Failed to create rotation json: %v", path, err)
				errCh <- err
				return
			}
			defer f.Close()

			encoder := json.NewEncoder(f)
			if err := encoder.Encode(rotations); err != nil {
				mlog.E("[%s] Failed to encode rotation json: %v", path, err)
				errCh <- err
			}
		}(i, rotations)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}

	return nil
}
