package pricing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// 条件树支持的逻辑算子
const (
	LogicAnd = "and"
	LogicOr  = "or"
	LogicNot = "not"
)

// 条件树支持的字段
const (
	FieldOccupancyRate   = "occupancy_rate"
	FieldBoxSizeCategory = "box_size_category"
	FieldDurationMonths  = "duration_months"
	FieldCalendarMonth   = "calendar_month"
	FieldCustomerSegment = "customer_segment"
	FieldSiteID          = "site_id"
)

// 条件树支持的比较算子
const (
	OpEq      = "eq"
	OpNeq     = "neq"
	OpGt      = "gt"
	OpGte     = "gte"
	OpLt      = "lt"
	OpLte     = "lte"
	OpBetween = "between"
	OpIn      = "in"
)

// Condition 规则条件树节点。
// 组合节点填 Logic/Children，叶子节点填 Field/Operator/Value，两组字段互斥；
// 全空节点视为恒真条件（无条件促销规则使用）。
type Condition struct {
	Logic    string      `json:"logic,omitempty"`    // and / or / not
	Children []Condition `json:"children,omitempty"` // 组合节点的子条件
	Field    string      `json:"field,omitempty"`    // 叶子节点的字段名
	Operator string      `json:"operator,omitempty"` // 叶子节点的比较算子
	Value    Value       `json:"value,omitempty"`    // 叶子节点的比较值
}

// Value 叶子条件的比较值。
// 标量比较用 Number 或 Text，between 用 Low/High，in 用 Set。
type Value struct {
	Number *decimal.Decimal `json:"number,omitempty"`
	Text   *string          `json:"text,omitempty"`
	Low    *decimal.Decimal `json:"low,omitempty"`
	High   *decimal.Decimal `json:"high,omitempty"`
	Set    []string         `json:"set,omitempty"`
}

// NumberValue 构造数值比较值
func NumberValue(d decimal.Decimal) Value {
	return Value{Number: &d}
}

// TextValue 构造文本比较值
func TextValue(s string) Value {
	return Value{Text: &s}
}

// RangeValue 构造 between 比较值（闭区间）
func RangeValue(low, high decimal.Decimal) Value {
	return Value{Low: &low, High: &high}
}

// SetValue 构造 in 比较值
func SetValue(items ...string) Value {
	return Value{Set: items}
}

// IsEmpty 判断是否为恒真空条件
func (c Condition) IsEmpty() bool {
	return c.Logic == "" && len(c.Children) == 0 && c.Field == "" && c.Operator == ""
}

// IsComposite 判断是否为组合节点
func (c Condition) IsComposite() bool {
	return c.Logic != ""
}

// Validate 校验条件树形状。
// 组合节点不得携带叶子字段，not 节点必须恰好一个子条件，
// 叶子节点的比较值槽位必须与算子匹配。
func (c Condition) Validate() error {
	if c.IsEmpty() {
		return nil
	}
	if c.IsComposite() {
		if c.Field != "" || c.Operator != "" {
			return errors.New("组合节点不允许携带叶子字段")
		}
		switch c.Logic {
		case LogicAnd, LogicOr:
			if len(c.Children) == 0 {
				return fmt.Errorf("%s 节点缺少子条件", c.Logic)
			}
		case LogicNot:
			if len(c.Children) != 1 {
				return errors.New("not 节点必须恰好包含一个子条件")
			}
		default:
			return fmt.Errorf("不支持的逻辑算子: %s", c.Logic)
		}
		for _, child := range c.Children {
			if err := child.Validate(); err != nil {
				return err
			}
		}
		return nil
	}

	if len(c.Children) > 0 {
		return errors.New("叶子节点不允许携带子条件")
	}
	if c.Field == "" || c.Operator == "" {
		return errors.New("叶子节点缺少字段或算子")
	}
	switch c.Operator {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		if c.Value.Number == nil && c.Value.Text == nil {
			return fmt.Errorf("算子 %s 需要标量比较值", c.Operator)
		}
	case OpBetween:
		if c.Value.Low == nil || c.Value.High == nil {
			return errors.New("between 需要上下界")
		}
	case OpIn:
		if len(c.Value.Set) == 0 {
			return errors.New("in 需要非空集合")
		}
	default:
		return fmt.Errorf("不支持的比较算子: %s", c.Operator)
	}
	return nil
}

// EncodeString 序列化为数据库 JSON 文本
func (c Condition) EncodeString() (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// Scan 用于数据库读取
func (c *Condition) Scan(value interface{}) error {
	if value == nil {
		*c = Condition{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("无法解析条件列类型: %T", value)
	}
	if len(raw) == 0 {
		*c = Condition{}
		return nil
	}
	return json.Unmarshal(raw, c)
}

// UnmarshalJSON 解析比较值（兼容标量、区间数组与集合数组的简写形式）
func (v *Value) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*v = Value{}
		return nil
	}
	switch b[0] {
	case '{':
		type alias Value
		var full alias
		if err := json.Unmarshal(b, &full); err != nil {
			return err
		}
		*v = Value(full)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value{Text: &s}
		return nil
	case '[':
		var nums []decimal.Decimal
		if err := json.Unmarshal(b, &nums); err == nil && len(nums) == 2 {
			*v = Value{Low: &nums[0], High: &nums[1]}
			return nil
		}
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*v = Value{Set: items}
		return nil
	default:
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return err
		}
		*v = Value{Number: &d}
		return nil
	}
}
