package skills

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/pkg/errors"

	guardtypes "github.com/junohq/agentskills/pkg/types/guard"
	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

// StructuredSkillResult is the metadata half of the response envelope.
// Error carries a redacted message; ErrorCode maps into the taxonomy
// in errors.go.
type StructuredSkillResult struct {
	SkillName string        `json:"skillName"`
	Action    string        `json:"action,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	ErrorCode string        `json:"errorCode,omitempty"`
	Retriable bool          `json:"retriable,omitempty"`
	Metadata  SkillMetadata `json:"metadata,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// SkillMetadata is a marker interface for action-specific metadata.
type SkillMetadata interface {
	ActionType() string
}

// NewStructuredResult builds an envelope for the given skill/action,
// populating the error fields when err is non-nil.
func NewStructuredResult(skillName, action string, err *SkillError) StructuredSkillResult {
	result := StructuredSkillResult{
		SkillName: skillName,
		Action:    action,
		Success:   err == nil,
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Error = err.Message
		result.ErrorCode = err.Code
		result.Retriable = err.Retriable
	}
	return result
}

// rawStructuredSkillResult is the wire form used for marshaling.
type rawStructuredSkillResult struct {
	SkillName    string          `json:"skillName"`
	Action       string          `json:"action,omitempty"`
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	ErrorCode    string          `json:"errorCode,omitempty"`
	Retriable    bool            `json:"retriable,omitempty"`
	MetadataType string          `json:"metadataType,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// MarshalJSON emits the metadata type tag alongside the metadata so the
// envelope round-trips into the right Go type.
func (s StructuredSkillResult) MarshalJSON() ([]byte, error) {
	raw := rawStructuredSkillResult{
		SkillName: s.SkillName,
		Action:    s.Action,
		Success:   s.Success,
		Error:     s.Error,
		ErrorCode: s.ErrorCode,
		Retriable: s.Retriable,
		Timestamp: s.Timestamp,
	}

	if s.Metadata != nil {
		raw.MetadataType = s.Metadata.ActionType()
		metadataBytes, err := json.Marshal(s.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal metadata")
		}
		raw.Metadata = metadataBytes
	}

	return json.Marshal(raw)
}

// metadataTypeRegistry maps metadata type tags to their Go types.
var metadataTypeRegistry = map[string]reflect.Type{
	"guard_scan_text":   reflect.TypeOf(ScanTextMetadata{}),
	"guard_scan_prompt": reflect.TypeOf(ScanPromptMetadata{}),
	"guard_scan_url":    reflect.TypeOf(ScanURLMetadata{}),
	"guard_scan_config": reflect.TypeOf(ScanConfigMetadata{}),
	"guard_report":      reflect.TypeOf(GuardReportMetadata{}),

	"market_quote":     reflect.TypeOf(QuoteMetadata{}),
	"market_analyze":   reflect.TypeOf(AnalyzeMetadata{}),
	"market_compare":   reflect.TypeOf(CompareMetadata{}),
	"market_watchlist": reflect.TypeOf(WatchlistMetadata{}),
	"market_alert":     reflect.TypeOf(AlertMetadata{}),
}

// UnmarshalJSON restores the typed metadata using the registry. Unknown
// metadata types leave Metadata nil rather than failing.
func (s *StructuredSkillResult) UnmarshalJSON(data []byte) error {
	var raw rawStructuredSkillResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.SkillName = raw.SkillName
	s.Action = raw.Action
	s.Success = raw.Success
	s.Error = raw.Error
	s.ErrorCode = raw.ErrorCode
	s.Retriable = raw.Retriable
	s.Timestamp = raw.Timestamp

	if raw.MetadataType != "" && len(raw.Metadata) > 0 {
		metadataType, exists := metadataTypeRegistry[raw.MetadataType]
		if !exists {
			return nil
		}
		metadataPtr := reflect.New(metadataType)
		if err := json.Unmarshal(raw.Metadata, metadataPtr.Interface()); err != nil {
			return errors.Wrapf(err, "failed to unmarshal metadata of type %s", raw.MetadataType)
		}
		s.Metadata = metadataPtr.Elem().Interface().(SkillMetadata)
	}

	return nil
}

// Guard-agent metadata structures

type ScanTextMetadata struct {
	TextLength  int                  `json:"textLength"`
	Findings    []guardtypes.Finding `json:"findings"`
	ThreatCount int                  `json:"threatCount"`
}

func (m ScanTextMetadata) ActionType() string { return "guard_scan_text" }

type ScanPromptMetadata struct {
	AnalysisMode string               `json:"analysisMode"`
	Findings     []guardtypes.Finding `json:"findings"`
	ThreatCount  int                  `json:"threatCount"`
}

func (m ScanPromptMetadata) ActionType() string { return "guard_scan_prompt" }

type ScanURLMetadata struct {
	URL         string               `json:"url"`
	Domain      string               `json:"domain"`
	Findings    []guardtypes.Finding `json:"findings"`
	ThreatCount int                  `json:"threatCount"`
}

func (m ScanURLMetadata) ActionType() string { return "guard_scan_url" }

type ScanConfigMetadata struct {
	KeysScanned int                  `json:"keysScanned"`
	Findings    []guardtypes.Finding `json:"findings"`
	ThreatCount int                  `json:"threatCount"`
}

func (m ScanConfigMetadata) ActionType() string { return "guard_scan_config" }

type GuardReportMetadata struct {
	Report        guardtypes.RiskReport `json:"report"`
	InputsScanned []string              `json:"inputsScanned"`
	AnalysisMode  string                `json:"analysisMode,omitempty"`
}

func (m GuardReportMetadata) ActionType() string { return "guard_report" }

// Market-analyzer metadata structures

type QuoteMetadata struct {
	Symbol    string            `json:"symbol"`
	AssetType string            `json:"assetType"`
	Quote     markettypes.Quote `json:"quote"`
	CostUsd   float64           `json:"costUsd"`
}

func (m QuoteMetadata) ActionType() string { return "market_quote" }

type AnalyzeMetadata struct {
	Symbol         string                   `json:"symbol"`
	AssetType      string                   `json:"assetType"`
	Period         string                   `json:"period"`
	DataPoints     int                      `json:"dataPoints"`
	Indicators     markettypes.IndicatorSet `json:"indicators"`
	Recommendation string                   `json:"recommendation"`
	CostUsd        float64                  `json:"costUsd"`
}

func (m AnalyzeMetadata) ActionType() string { return "market_analyze" }

// ComparisonEntry is one symbol's slice of a compare call. A failed
// symbol carries Error and zero values; the overall call still succeeds.
type ComparisonEntry struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price,omitempty"`
	ChangePercent  float64 `json:"changePercent,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
	Error          string  `json:"error,omitempty"`
}

type CompareMetadata struct {
	Entries   []ComparisonEntry `json:"entries"`
	AssetType string            `json:"assetType"`
	Period    string            `json:"period"`
	CostUsd   float64           `json:"costUsd"`
}

func (m CompareMetadata) ActionType() string { return "market_compare" }

type WatchlistMetadata struct {
	Operation string                       `json:"operation"`
	Symbol    string                       `json:"symbol,omitempty"`
	Entry     *markettypes.WatchlistEntry  `json:"entry,omitempty"`
	Entries   []markettypes.WatchlistEntry `json:"entries,omitempty"`
	Count     int                          `json:"count"`
}

func (m WatchlistMetadata) ActionType() string { return "market_watchlist" }

// TriggeredAlert records a watchlist entry whose target price condition
// held at check time.
type TriggeredAlert struct {
	Symbol      string  `json:"symbol"`
	AlertType   string  `json:"alertType"`
	TargetPrice float64 `json:"targetPrice"`
	Price       float64 `json:"price"`
}

type AlertMetadata struct {
	Checked   int               `json:"checked"`
	Triggered []TriggeredAlert  `json:"triggered"`
	Errors    map[string]string `json:"errors,omitempty"`
	CostUsd   float64           `json:"costUsd"`
}

func (m AlertMetadata) ActionType() string { return "market_alert" }

// ExtractMetadata copies metadata into target when the underlying types
// match, handling both pointer and value forms.
func ExtractMetadata(metadata SkillMetadata, target interface{}) bool {
	if metadata == nil {
		return false
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return false
	}

	targetElem := targetValue.Elem()
	metadataValue := reflect.ValueOf(metadata)
	if metadataValue.Kind() == reflect.Ptr && !metadataValue.IsNil() {
		metadataValue = metadataValue.Elem()
	}

	if targetElem.Type() != metadataValue.Type() {
		return false
	}

	targetElem.Set(metadataValue)
	return true
}
