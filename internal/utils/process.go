package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/weekwise/internal/constants"
)

var (
	listProcessesFunc = ps.Processes
	getpidFunc        = os.Getpid
)

// OtherInstances returns the pids of other running weekwise processes.
// The slot record is last-writer-wins, so two editors can lose each
// other's changes.
func OtherInstances() ([]int, error) {
	procs, err := listProcessesFunc()
	if err != nil {
		return nil, err
	}

	self := getpidFunc()
	var pids []int
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if name == constants.AppName {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}
