package hunt

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// StepSpec describes one step: what is shown while it is pending, how long it
// takes, how its outcome is decided, and the texts for each outcome.
type StepSpec struct {
	ID      StepID        `yaml:"id"`
	Label   string        `yaml:"label"`
	Latency time.Duration `yaml:"latency"`
	Policy  Policy        `yaml:"policy"`
	Success string        `yaml:"success"`
	Cost    string        `yaml:"cost,omitempty"`
	Failure string        `yaml:"failure,omitempty"`
}

// Catalog is the full localized script of a hunt
type Catalog struct {
	Locale       string     `yaml:"locale"`
	Title        string     `yaml:"title"`
	FailedPrefix string     `yaml:"failed_prefix"`
	Steps        []StepSpec `yaml:"steps"`
}

// Step returns the spec for id
func (c *Catalog) Step(id StepID) (StepSpec, bool) {
	for _, s := range c.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return StepSpec{}, false
}

// FailureStatus formats the status shown when a run ends on reason
func (c *Catalog) FailureStatus(reason string) string {
	return fmt.Sprintf("%s: %s", c.FailedPrefix, reason)
}

// WithPolicy returns a copy of the catalog with every listed step forced to policy
func (c *Catalog) WithPolicy(policy Policy, ids ...StepID) *Catalog {
	out := c.Clone()
	for i := range out.Steps {
		if len(ids) == 0 {
			out.Steps[i].Policy = policy
			continue
		}
		for _, id := range ids {
			if out.Steps[i].ID == id {
				out.Steps[i].Policy = policy
			}
		}
	}
	return out
}

func (c *Catalog) Clone() *Catalog {
	out := *c
	out.Steps = append([]StepSpec(nil), c.Steps...)
	return &out
}

// Validate checks that the catalog lists every step once, in run order,
// with the texts its policy can produce.
func (c *Catalog) Validate() error {
	var problems []string
	if c.FailedPrefix == "" {
		problems = append(problems, "failed_prefix is required")
	}
	if len(c.Steps) != StepCount {
		problems = append(problems, fmt.Sprintf("expected %d steps, got %d", StepCount, len(c.Steps)))
	}
	for i, s := range c.Steps {
		if i < len(StepOrder) && s.ID != StepOrder[i] {
			problems = append(problems, fmt.Sprintf("step %d: expected id %q, got %q", i, StepOrder[i], s.ID))
		}
		if strings.TrimSpace(s.Label) == "" {
			problems = append(problems, fmt.Sprintf("step %s: label is required", s.ID))
		}
		if strings.TrimSpace(s.Success) == "" {
			problems = append(problems, fmt.Sprintf("step %s: success text is required", s.ID))
		}
		if s.Latency < 0 {
			problems = append(problems, fmt.Sprintf("step %s: latency must not be negative", s.ID))
		}
		if !s.Policy.Valid() {
			problems = append(problems, fmt.Sprintf("step %s: unknown policy %q", s.ID, s.Policy))
			continue
		}
		if s.Policy != PolicyAlwaysSucceed && strings.TrimSpace(s.Failure) == "" {
			problems = append(problems, fmt.Sprintf("step %s: policy %s needs a failure text", s.ID, s.Policy))
		}
		if s.Policy == PolicyRandomTernary && strings.TrimSpace(s.Cost) == "" {
			problems = append(problems, fmt.Sprintf("step %s: policy %s needs a cost text", s.ID, s.Policy))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w:\n%s", ErrInvalidCatalog, strings.Join(problems, "\n"))
	}
	return nil
}

// ParseCatalog decodes a YAML catalog, rejecting unknown fields
func ParseCatalog(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads and validates a YAML catalog file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// MarshalCatalog encodes a catalog as YAML
func MarshalCatalog(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	supportedLocales = []language.Tag{language.English, language.Chinese}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

// CatalogFor returns the built-in catalog closest to locale. Unparseable
// locales fall back to English.
func CatalogFor(locale string) *Catalog {
	tag, err := language.Parse(locale)
	if err != nil {
		return EnglishCatalog()
	}
	_, idx, _ := localeMatcher.Match(tag)
	if supportedLocales[idx] == language.Chinese {
		return ChineseCatalog()
	}
	return EnglishCatalog()
}

// Title renders a step ID for display, e.g. "Explore Passage"
func (id StepID) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(id), "_", " "))
}

func EnglishCatalog() *Catalog {
	return &Catalog{
		Locale:       "en",
		Title:        "TREASURE HUNT",
		FailedPrefix: "task failed",
		Steps: []StepSpec{
			{
				ID:      StepInitialClue,
				Label:   "The hero is looking for the first clue...",
				Latency: 1000 * time.Millisecond,
				Policy:  PolicyAlwaysSucceed,
				Success: "Found the first clue in the old library...",
			},
			{
				ID:      StepTalkToElder,
				Label:   "The hero asks the mysterious elder for another clue...",
				Latency: 1200 * time.Millisecond,
				Policy:  PolicyAlwaysSucceed,
				Success: "The elder told of a secret hidden passage...",
			},
			{
				ID:      StepDecodeScript,
				Label:   "The hero decodes the ancient script to locate the treasure...",
				Latency: 1500 * time.Millisecond,
				Policy:  PolicyRequireInput,
				Success: "Decoded! The treasure lies in an ancient temple...",
				Failure: "No clue to decode!",
			},
			{
				ID:      StepExplorePassage,
				Label:   "The hero explores the hidden passage, watch for traps...",
				Latency: 1800 * time.Millisecond,
				Policy:  PolicyRandomTernary,
				Success: "Slipped through the hidden passage, closer to the treasure...",
				Cost:    "Made it through the hidden passage with a minor wound, closer to the treasure...",
				Failure: "Oops! A trap in the hidden passage wounded the hero!",
			},
			{
				ID:      StepSearchTemple,
				Label:   "The hero searches the ancient temple for the mysterious box...",
				Latency: 2000 * time.Millisecond,
				Policy:  PolicyRandomBinary,
				Success: "Found a mysterious box...",
				Failure: "Uh oh! Ran into the temple guardian!",
			},
			{
				ID:      StepOpenBox,
				Label:   "The hero opens the treasure box to see what is inside!",
				Latency: 1000 * time.Millisecond,
				Policy:  PolicyAlwaysSucceed,
				Success: "Congratulations! You found the legendary treasure!",
			},
		},
	}
}

func ChineseCatalog() *Catalog {
	return &Catalog{
		Locale:       "zh",
		Title:        "寻宝",
		FailedPrefix: "任务失败",
		Steps: []StepSpec{
			{
				ID:      StepInitialClue,
				Label:   "主角正在寻找初始线索...",
				Latency: 1000 * time.Millisecond,
				Policy:  PolicyAlwaysSucceed,
				Success: "在古老的图书馆里找到了第一个线索...",
			},
			{
				ID:      StepTalkToElder,
				Label:   "主角与神秘老人交谈获取额外线索...",
				Latency: 1200 * time.Millisecond,
				Policy:  PolicyAlwaysSucceed,
				Success: "从神秘老人那里得知了一个隐藏通道的秘密线索...",
			},
			{
				ID:      StepDecodeScript,
				Label:   "主角解码古代文字，寻找宝藏位置...",
				Latency: 1500 * time.Millisecond,
				Policy:  PolicyRequireInput,
				Success: "解码成功!宝藏在一座古老的神庙中...",
				Failure: "没有线索可以解码!",
			},
			{
				ID:      StepExplorePassage,
				Label:   "主角探索隐藏通道，小心陷阱...",
				Latency: 1800 * time.Millisecond,
				Policy:  PolicyRandomTernary,
				Success: "顺利通过隐藏通道，离宝藏更近了...",
				Cost:    "成功通过隐藏通道，不过主角受了点小伤，离宝藏更近了...",
				Failure: "哎呀!在隐藏通道里遇到了陷阱，主角受伤了!",
			},
			{
				ID:      StepSearchTemple,
				Label:   "主角在古老神庙中搜索神秘箱子...",
				Latency: 2000 * time.Millisecond,
				Policy:  PolicyRandomBinary,
				Success: "找到了一个神秘的箱子...",
				Failure: "糟糕!遇到了神庙守卫!",
			},
			{
				ID:      StepOpenBox,
				Label:   "主角打开宝藏箱，看看有什么惊喜！",
				Latency: 1000 * time.Millisecond,
				Policy:  PolicyAlwaysSucceed,
				Success: "恭喜!你找到了传说中的宝藏!",
			},
		},
	}
}
