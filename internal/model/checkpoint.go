package model

import "encoding/json"

// 检查点类型决定计时策略：standard 按题数计时，rapid 使用固定时长上限
const (
	CheckpointKindStandard = "standard"
	CheckpointKindRapid    = "rapid"
)

type Checkpoint struct {
	BaseModel
	TopicID       uint   `gorm:"index;type:bigint unsigned" json:"topicId"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	Kind          string `gorm:"size:20;default:'standard'" json:"kind"`
	Order         int    `gorm:"default:0" json:"order"`
	PassThreshold int    `gorm:"default:80" json:"passThreshold"`
	SecondsPerQ   int    `gorm:"default:60" json:"secondsPerQuestion"`
	TimeCeiling   int    `gorm:"default:0" json:"timeCeiling"` // 秒，rapid 类型使用
	IsGate        bool   `gorm:"default:false" json:"isGate"`  // 通过后解锁结课测评
	IsFinal       bool   `gorm:"default:false" json:"isFinal"` // 主题的结课测评，不计入常规检查点进度
	IsPublished   bool   `gorm:"default:false" json:"isPublished"`
}

func (Checkpoint) TableName() string {
	return "checkpoints"
}

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionFreeText       = "free_text"
)

type CheckpointQuestion struct {
	BaseModel
	CheckpointID uint            `gorm:"index;type:bigint unsigned" json:"checkpointId"`
	Kind         string          `gorm:"size:30;not null" json:"kind"`
	Content      string          `gorm:"type:text;not null" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"` // JSON: []string，选择题有序选项
	Answer       string          `gorm:"type:text" json:"answer"`            // 正确选项文本或参考答案
	Explanation  string          `gorm:"type:text" json:"explanation"`
	ImageURL     string          `gorm:"size:512" json:"imageUrl"`
	Order        int             `gorm:"default:0" json:"order"`
}

func (CheckpointQuestion) TableName() string {
	return "checkpoint_questions"
}

// OptionList 解析 Options JSON；解析失败返回空列表
func (q *CheckpointQuestion) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}
