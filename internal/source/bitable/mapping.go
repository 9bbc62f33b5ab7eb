package bitable

import (
	"fmt"

	"github.com/nhle/lifeos/internal/model"
)

// Columns names the user-visible column label for each record field.
// The remote store addresses columns by these labels, not by stable ids,
// which makes this table the single most error-prone seam: any drift
// between it and the actual table surfaces as a SchemaError.
type Columns struct {
	Title       string
	Content     string
	Status      string
	Type        string
	Priority    string
	Category    string
	Tags        string
	NextActions string
	DueDate     string
	CreatedAt   string
}

// Mapping is the fully declarative translation between the internal
// record model and one generation of the remote table's vocabulary.
type Mapping struct {
	Version string
	Columns Columns

	// Enum value -> option label, per enum field.
	Status      map[string]string
	Types       map[string]string
	Priority    map[string]string
	NextActions map[string]string
}

// mappings holds every supported vocabulary generation. The table's
// option labels changed twice over the product's life; existing tables
// keep whichever generation they were created with.
var mappings = map[string]Mapping{
	"en": {
		Version: "en",
		Columns: Columns{
			Title:       "Title",
			Content:     "Content",
			Status:      "Status",
			Type:        "Type",
			Priority:    "Priority",
			Category:    "Category",
			Tags:        "Tags",
			NextActions: "Next Actions",
			DueDate:     "Due Date",
			CreatedAt:   "Created Time",
		},
		Status: map[string]string{
			model.StatusInbox: "Inbox",
			model.StatusTodo:  "Todo",
			model.StatusDoing: "Doing",
			model.StatusDone:  "Done",
		},
		Types: map[string]string{
			model.TypeIdea:    "Idea",
			model.TypeTask:    "Task",
			model.TypeNote:    "Note",
			model.TypeJournal: "Journal",
		},
		Priority: map[string]string{
			model.PriorityHigh:   "High",
			model.PriorityNormal: "Normal",
			model.PriorityLow:    "Low",
		},
		NextActions: map[string]string{
			"learn":    "Learn",
			"organize": "Organize",
			"use":      "Use",
			"share":    "Share",
			"todo":     "Todo",
		},
	},
	"zh-v1": {
		Version: "zh-v1",
		Columns: Columns{
			Title:       "标题",
			Content:     "内容",
			Status:      "状态",
			Type:        "类型",
			Priority:    "优先级",
			Category:    "分类",
			Tags:        "标签",
			NextActions: "下一步",
			DueDate:     "截止日期",
			CreatedAt:   "创建时间",
		},
		Status: map[string]string{
			model.StatusInbox: "收集箱",
			model.StatusTodo:  "待办",
			model.StatusDoing: "进行中",
			model.StatusDone:  "已完成",
		},
		Types: map[string]string{
			model.TypeIdea:    "想法",
			model.TypeTask:    "任务",
			model.TypeNote:    "笔记",
			model.TypeJournal: "日志",
		},
		Priority: map[string]string{
			model.PriorityHigh:   "高",
			model.PriorityNormal: "中",
			model.PriorityLow:    "低",
		},
		NextActions: map[string]string{
			"learn":    "学习",
			"organize": "整理",
			"use":      "应用",
			"share":    "分享",
			"todo":     "待办",
		},
	},
	"zh-v2": {
		Version: "zh-v2",
		Columns: Columns{
			Title:       "名称",
			Content:     "详情",
			Status:      "进度",
			Type:        "类别",
			Priority:    "重要度",
			Category:    "方向",
			Tags:        "标签",
			NextActions: "下一步行动",
			DueDate:     "截止时间",
			CreatedAt:   "创建时间",
		},
		Status: map[string]string{
			model.StatusInbox: "📥 收集",
			model.StatusTodo:  "📝 待办",
			model.StatusDoing: "🚀 推进",
			model.StatusDone:  "✅ 完成",
		},
		Types: map[string]string{
			model.TypeIdea:    "💡 灵感",
			model.TypeTask:    "✅ 任务",
			model.TypeNote:    "📓 笔记",
			model.TypeJournal: "📔 日记",
		},
		Priority: map[string]string{
			model.PriorityHigh:   "🔥 高",
			model.PriorityNormal: "⭐ 普通",
			model.PriorityLow:    "💤 低",
		},
		NextActions: map[string]string{
			"learn":    "学习",
			"organize": "整理",
			"use":      "应用",
			"share":    "分享",
			"todo":     "待办",
		},
	},
}

// DefaultVocabulary is used for tables created fresh today.
const DefaultVocabulary = "en"

// MappingFor returns the mapping for the named vocabulary generation.
func MappingFor(version string) (Mapping, error) {
	if version == "" {
		version = DefaultVocabulary
	}
	m, ok := mappings[version]
	if !ok {
		return Mapping{}, fmt.Errorf("unknown vocabulary %q", version)
	}
	return m, nil
}

// Vocabularies lists the supported mapping generations.
func Vocabularies() []string {
	return []string{"en", "zh-v1", "zh-v2"}
}

// ExpectedColumns returns every column label the remote table must
// carry, in a stable order suitable for user-facing guidance.
func (m Mapping) ExpectedColumns() []string {
	c := m.Columns
	return []string{
		c.Title, c.Content, c.Status, c.Type, c.Priority,
		c.Category, c.Tags, c.NextActions, c.DueDate, c.CreatedAt,
	}
}

// statusValue translates an option label back to the internal status,
// defaulting to inbox for labels from an unknown generation.
func (m Mapping) statusValue(label string) string {
	return reverse(m.Status, label, model.StatusInbox)
}

func (m Mapping) typeValue(label string) string {
	return reverse(m.Types, label, model.TypeIdea)
}

func (m Mapping) priorityValue(label string) string {
	return reverse(m.Priority, label, model.PriorityNormal)
}

func (m Mapping) nextActionValue(label string) string {
	return reverse(m.NextActions, label, "")
}

func reverse(table map[string]string, label, fallback string) string {
	for value, l := range table {
		if l == label {
			return value
		}
	}
	return fallback
}
