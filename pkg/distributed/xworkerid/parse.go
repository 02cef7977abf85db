package xworkerid

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseWorkerID 从顺序节点路径中解析 worker id。
//
// nodePath 必须以 prefix 开头，剩余部分必须是纯十进制数字（不接受符号、空格）。
// 不满足时返回 ErrCorruptState。
//
//	ParseWorkerID("/uid/workNode/workid-", "/uid/workNode/workid-0000000001") // 1, nil
func ParseWorkerID(prefix, nodePath string) (int64, error) {
	suffix, ok := strings.CutPrefix(nodePath, prefix)
	if !ok {
		return 0, fmt.Errorf("%w: node path %q does not start with %q", ErrCorruptState, nodePath, prefix)
	}
	if suffix == "" {
		return 0, fmt.Errorf("%w: node path %q has no numeric suffix", ErrCorruptState, nodePath)
	}
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return 0, fmt.Errorf("%w: node path %q has non-numeric suffix %q", ErrCorruptState, nodePath, suffix)
		}
	}
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse suffix of %q: %w", ErrCorruptState, nodePath, err)
	}
	return id, nil
}
