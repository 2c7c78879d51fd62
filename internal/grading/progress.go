package grading

// 主题完成度权重：检查点占 80%，结课测评占 20%
const (
	checkpointShare = 80.0
	finalShare      = 20.0
)

// CheckpointResult 进度计算所需的检查点结果视图
type CheckpointResult struct {
	CheckpointID uint
	IsGate       bool // 指定的解锁检查点（惯例为序列中最后一个常规检查点）
	Passed       bool
}

// TopicProgress 派生值，每次读取重新计算，只做短 TTL 的 UI 缓存
type TopicProgress struct {
	Percentage        float64 `json:"percentage"`
	PassedCheckpoints int     `json:"passedCheckpoints"`
	TotalCheckpoints  int     `json:"totalCheckpoints"`
	FinalUnlocked     bool    `json:"finalUnlocked"`
	FinalPassed       bool    `json:"finalPassed"`
	Complete          bool    `json:"complete"`
}

// ComputeTopicProgress 聚合检查点通过情况与结课测评结果。
// 结课测评解锁是硬前置条件：仅当门禁检查点通过，与百分比无关。
func ComputeTopicProgress(results []CheckpointResult, finalPassed bool) TopicProgress {
	p := TopicProgress{
		TotalCheckpoints: len(results),
		FinalPassed:      finalPassed,
	}

	for _, r := range results {
		if r.Passed {
			p.PassedCheckpoints++
			if r.IsGate {
				p.FinalUnlocked = true
			}
		}
	}

	if p.TotalCheckpoints > 0 {
		p.Percentage = float64(p.PassedCheckpoints) / float64(p.TotalCheckpoints) * checkpointShare
	}
	if finalPassed {
		p.Percentage += finalShare
	}

	p.Complete = p.TotalCheckpoints > 0 &&
		p.PassedCheckpoints == p.TotalCheckpoints &&
		finalPassed

	return p
}
