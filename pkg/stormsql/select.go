package stormsql

import (
	"fmt"
	"strconv"

	"github.com/araddon/dateparse"
	"github.com/asdine/storm/v3/q"
	"github.com/pkg/errors"
	"github.com/xwb1989/sqlparser"
)

// A SelectClause contains all the parsed SQL data.
type SelectClause struct {
	SelectedFields  []string
	Count           bool
	Tablename       string
	Matcher         q.Matcher
	Skip            int
	Limit           int
	OrderBy         []string
	OrderByReversed bool
}

type parser struct {
	columns map[string]string
}

// ParseSelect parses the given SELECT statement.
// columns maps SQL column names (e.g. student_id) to the stored struct fields (e.g. StudentID),
// unknown columns are used as is.
func ParseSelect(sql string, columns map[string]string) (*SelectClause, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse SQL")
	}

	s, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, errors.New("not a select statement")
	}

	p := &parser{columns: columns}
	var sc SelectClause

	// SELECT * ...
	// SELECT title,created_at ...
	for _, se := range s.SelectExprs {
		switch v := se.(type) {
		case *sqlparser.StarExpr:
			sc.SelectedFields = []string{}
		case *sqlparser.AliasedExpr:
			switch v := v.Expr.(type) {
			case *sqlparser.ColName:
				sc.SelectedFields = append(sc.SelectedFields, p.column(v))
			case *sqlparser.FuncExpr:
				if v.Name.Lowered() != "count" {
					return nil, errors.Errorf("unsupported function: %s", v.Name.String())
				}
				sc.SelectedFields = []string{}
				sc.Count = true
			default:
				return nil, errors.New("unsupported select expression")
			}
		default:
			return nil, errors.New("unsupported select expression")
		}
	}

	// FROM items
	if len(s.From) != 1 {
		return nil, errors.New("exactly one table is supported")
	}
	table, ok := s.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, errors.New("unsupported table expression")
	}
	sc.Tablename = sqlparser.GetTableName(table.Expr).String()

	// WHERE
	sc.Matcher = q.And()
	if s.Where != nil {
		if sc.Matcher, err = p.where(s.Where.Expr); err != nil {
			return nil, err
		}
	}

	// LIMIT 5
	// LIMIT 2,5
	if s.Limit != nil {
		if s.Limit.Offset != nil {
			if sc.Skip, err = p.integer(s.Limit.Offset); err != nil {
				return nil, errors.Wrap(err, "offset")
			}
		}
		if sc.Limit, err = p.integer(s.Limit.Rowcount); err != nil {
			return nil, errors.Wrap(err, "limit")
		}
	}

	// ORDER BY created_at
	// ORDER BY created_at DESC
	// ORDER BY created_at DESC, title ASC     => All will be DESC due to strom limitation
	for _, ob := range s.OrderBy {
		col, ok := ob.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("unsupported order by expression")
		}
		if ob.Direction == sqlparser.DescScr {
			sc.OrderByReversed = true
		}
		sc.OrderBy = append(sc.OrderBy, p.column(col))
	}

	return &sc, nil
}

func (p *parser) column(c *sqlparser.ColName) string {
	name := c.Name.String()
	if field, ok := p.columns[name]; ok {
		return field
	}
	return name
}

func (p *parser) where(expr sqlparser.Expr) (q.Matcher, error) {
	switch v := expr.(type) {
	//
	//
	//
	case *sqlparser.ComparisonExpr:
		col, ok := v.Left.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("left side of a comparison must be a column")
		}
		field := p.column(col)

		// Parse value
		var value any
		switch sqlvalue := v.Right.(type) {
		case sqlparser.BoolVal:
			value = bool(sqlvalue)
		case sqlparser.ValTuple:
			var tuple []any
			for _, t := range sqlvalue {
				sv, ok := t.(*sqlparser.SQLVal)
				if !ok {
					return nil, errors.New("unsupported tuple value")
				}
				v, err := parseSQLVal(sv)
				if err != nil {
					return nil, err
				}
				tuple = append(tuple, v)
			}
			value = tuple
		case *sqlparser.SQLVal:
			var err error
			if value, err = parseSQLVal(sqlvalue); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("unsupported value: %s", sqlparser.String(v.Right))
		}

		// Parse operator
		switch v.Operator {
		case sqlparser.EqualStr:
			return q.Eq(field, value), nil
		case sqlparser.NotEqualStr:
			return q.Not(q.Eq(field, value)), nil
		case sqlparser.GreaterThanStr:
			return q.Gt(field, value), nil
		case sqlparser.GreaterEqualStr:
			return q.Gte(field, value), nil
		case sqlparser.InStr:
			return q.In(field, value), nil
		case sqlparser.LessThanStr:
			return q.Lt(field, value), nil
		case sqlparser.LessEqualStr:
			return q.Lte(field, value), nil
		case sqlparser.LikeStr:
			return q.Re(field, fmt.Sprintf("%v", value)), nil
		default:
			return nil, errors.Errorf("unsupported operator: %s", v.Operator)
		}
		//
		//
		//
	case *sqlparser.IsExpr:
		col, ok := v.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("IS operand must be a column")
		}

		switch v.Operator {
		case sqlparser.IsNullStr:
			return q.Eq(p.column(col), nil), nil
		case sqlparser.IsNotNullStr:
			return q.Not(q.Eq(p.column(col), nil)), nil
		default:
			return nil, errors.Errorf("unsupported operator: %s", v.Operator)
		}
		//
		//
		//
	case *sqlparser.AndExpr:
		left, err := p.where(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := p.where(v.Right)
		if err != nil {
			return nil, err
		}
		return q.And(left, right), nil
		//
		//
		//
	case *sqlparser.OrExpr:
		left, err := p.where(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := p.where(v.Right)
		if err != nil {
			return nil, err
		}
		return q.Or(left, right), nil
		//
		//
		//
	case *sqlparser.ParenExpr:
		return p.where(v.Expr)
	default:
		return nil, errors.Errorf("unsupported where expression: %s", sqlparser.String(expr))
	}
}

func (p *parser) integer(expr sqlparser.Expr) (int, error) {
	sv, ok := expr.(*sqlparser.SQLVal)
	if !ok || sv.Type != sqlparser.IntVal {
		return 0, errors.New("integer expected")
	}
	return strconv.Atoi(string(sv.Val))
}

func parseSQLVal(v *sqlparser.SQLVal) (value any, err error) {
	switch v.Type {
	case sqlparser.StrVal:
		value = string(v.Val)

		// Try to convert to time.Time if possible
		if t, err := dateparse.ParseAny(string(v.Val)); err == nil {
			value = t.UTC()
		}
	case sqlparser.IntVal:
		value, err = strconv.Atoi(string(v.Val))
	case sqlparser.FloatVal:
		value, err = strconv.ParseFloat(string(v.Val), 64)
	case sqlparser.HexNum:
		value, err = strconv.ParseInt(string(v.Val[2:]), 16, 64)
	case sqlparser.HexVal:
		value, err = v.HexDecode()
	case sqlparser.BitVal:
		value = len(v.Val) > 0 && v.Val[0] == 1
	default:
		err = errors.New("unsupported value type")
	}

	return value, errors.Wrap(err, "could not parse value")
}
