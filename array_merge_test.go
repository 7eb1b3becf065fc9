package jsontemplar_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/nikitaxru/jsontemplar"
)

// ArrayMergeSuite - режим «один документ с массивом»
type ArrayMergeSuite struct {
	suite.Suite
	uuids  int
	engine *jsontemplar.Engine
}

func (s *ArrayMergeSuite) SetupTest() {
	s.uuids = 0
	s.engine = jsontemplar.NewEngine(nil, jsontemplar.Dynamics{
		Now: func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) },
		UUID: func() string {
			s.uuids++
			return fmt.Sprintf("uuid-%d", s.uuids)
		},
		Random: func(int) int { return 7 },
	})
}

// Runner
func TestArrayMergeSuite(t *testing.T) {
	suite.Run(t, new(ArrayMergeSuite))
}

const orderTemplate = `{
  "title": "{{userInputString}}",
  "generated": "{{currentDate}}",
  "batch": "{{uuid}}",
  "data": {
    "items": [
      {"name": "{{name}}", "qty": {{rowInputNumber}}, "id": "{{uuid}}"},
      {"name": "ignored"}
    ]
  }
}`

// TestItemsInRowOrder - массив заменяется элементами по строкам, общие плейсхолдеры заполняются один раз
func (s *ArrayMergeSuite) TestItemsInRowOrder() {
	table := jsontemplar.ParseCSV("name\nJohn\nJane\nJim")
	doc, err := s.engine.MergeArray(orderTemplate, table.Rows, "data.items",
		map[string]string{"userInputString": "Q3"},
		map[int]map[string]string{0: {"rowInputNumber": "3"}, 1: {"rowInputNumber": "5"}, 2: {"rowInputNumber": "0"}},
		map[string]bool{"rowInputNumber": true})
	s.Require().NoError(err)

	s.JSONEq(`{
		"title": "Q3",
		"generated": "2024-03-05",
		"batch": "uuid-4",
		"data": {"items": [
			{"name": "John", "qty": 3, "id": "uuid-1"},
			{"name": "Jane", "qty": 5, "id": "uuid-2"},
			{"name": "Jim", "qty": 0, "id": "uuid-3"}
		]}
	}`, doc)

	formatted, ok := jsontemplar.FormatJSON(doc)
	s.True(ok)
	s.Equal(formatted, doc, "result must already be 2-space formatted")
	s.Contains(doc, "\n  \"title\": \"Q3\",")
}

// TestRowCountFidelity - число элементов равно числу строк, в том числе нулю
func (s *ArrayMergeSuite) TestRowCountFidelity() {
	tpl := `{"list":[{"v":"{{v}}"}]}`
	for _, n := range []int{0, 1, 5} {
		rows := make([]jsontemplar.Row, n)
		for i := range rows {
			rows[i] = jsontemplar.Row{"v": fmt.Sprint(i)}
		}
		doc, err := s.engine.MergeArray(tpl, rows, "list", nil, nil, nil)
		s.Require().NoError(err)
		items := gjson.Get(doc, "list").Array()
		s.Require().Len(items, n)
		for i, it := range items {
			s.Equal(fmt.Sprint(i), it.Get("v").String())
		}
	}
}

// TestNestedPath - путь может проходить через индекс массива
func (s *ArrayMergeSuite) TestNestedPath() {
	tpl := `{"groups":[{"members":[{"n":"{{name}}"}]}]}`
	rows := []jsontemplar.Row{{"name": "a"}, {"name": "b"}}
	doc, err := s.engine.MergeArray(tpl, rows, "groups.0.members", nil, nil, nil)
	s.Require().NoError(err)
	s.JSONEq(`{"groups":[{"members":[{"n":"a"},{"n":"b"}]}]}`, doc)
}

// TestScalarItems - элемент-шаблон может быть строкой
func (s *ArrayMergeSuite) TestScalarItems() {
	doc, err := s.engine.MergeArray(`{"tags":["{{tag.toUpperCase()}}"]}`,
		[]jsontemplar.Row{{"tag": "x"}, {"tag": "y"}}, "tags", nil, nil, nil)
	s.Require().NoError(err)
	s.JSONEq(`{"tags":["X","Y"]}`, doc)
}

// TestErrors - при ошибке возвращается исходный шаблон
func (s *ArrayMergeSuite) TestErrors() {
	rows := []jsontemplar.Row{{"v": "abc"}}
	cases := []struct {
		name string
		tpl  string
		path string
		want error
	}{
		{"invalid json", `{"list":[`, "list", jsontemplar.ErrTemplateSyntax},
		{"missing key", `{"list":[{"v":1}]}`, "other", jsontemplar.ErrArrayPath},
		{"not an array", `{"list":{"v":1}}`, "list", jsontemplar.ErrArrayPath},
		{"through scalar", `{"list":1}`, "list.x", jsontemplar.ErrArrayPath},
		{"empty path", `{"list":[{"v":1}]}`, "", jsontemplar.ErrArrayPath},
		{"empty array", `{"list":[]}`, "list", jsontemplar.ErrEmptyArray},
		{"broken item", `{"list":[{"v":{{v}}}]}`, "list", jsontemplar.ErrItemSyntax},
	}
	for _, c := range cases {
		s.Run(c.name, func() {
			doc, err := s.engine.MergeArray(c.tpl, rows, c.path, nil, nil, nil)
			s.ErrorIs(err, c.want)
			s.Equal(c.tpl, doc)
		})
	}
}

// TestItemsSentinelInData - значение, совпадающее со служебной заглушкой, не перехватывает элементы
func (s *ArrayMergeSuite) TestItemsSentinelInData() {
	tpl := `{"label":"__jsontemplar_items__","title":"{{userInputString}}","items":[{"n":"{{name}}"}]}`
	rows := []jsontemplar.Row{{"name": "A"}, {"name": "B"}}
	doc, err := s.engine.MergeArray(tpl, rows, "items",
		map[string]string{"userInputString": "__jsontemplar_items__"}, nil, nil)
	s.Require().NoError(err)
	s.JSONEq(`{
		"label": "__jsontemplar_items__",
		"title": "__jsontemplar_items__",
		"items": [{"n": "A"}, {"n": "B"}]
	}`, doc)
}

// TestPlaceholdersInDataStayLiteral - плейсхолдеры внутри подставленных значений не раскрываются
func (s *ArrayMergeSuite) TestPlaceholdersInDataStayLiteral() {
	doc, err := s.engine.MergeArray(`{"title":"{{userInputString}}","items":[{"n":"{{name}}"}]}`,
		[]jsontemplar.Row{{"name": "{{uuid}}"}}, "items",
		map[string]string{"userInputString": "at {{currentDate}}"}, nil, nil)
	s.Require().NoError(err)
	s.JSONEq(`{"title":"at {{currentDate}}","items":[{"n":"{{uuid}}"}]}`, doc)
	s.Equal(0, s.uuids)
}

// TestDottedKeyPath - точка в пути всегда разделяет сегменты
func (s *ArrayMergeSuite) TestDottedKeyPath() {
	tpl := `{"a.b":[{"x":"{{x}}"}]}`
	rows := []jsontemplar.Row{{"x": "1"}}
	_, err := s.engine.MergeArray(tpl, rows, "a.b", nil, nil, nil)
	s.ErrorIs(err, jsontemplar.ErrArrayPath)

	res, err := s.engine.Run(jsontemplar.Request{Template: tpl, Table: &jsontemplar.Table{Headers: []string{"x"}, Rows: rows}, ArrayMode: true, ArrayPath: "a.b"})
	s.ErrorIs(err, jsontemplar.ErrNotReady, "check must reject the same path MergeArray rejects")
	s.NotEmpty(res.Report.ArrayError)
}

// TestRunArrayMode - Run в режиме массива с проверкой готовности
func (s *ArrayMergeSuite) TestRunArrayMode() {
	res, err := s.engine.Run(jsontemplar.Request{
		Template:  `{"total":{{userInputNumber}},"items":[{"n":"{{name}}","s":"{{rowInputString}}"}]}`,
		Table:     jsontemplar.ParseCSV("name\nA\nB"),
		ArrayMode: true,
		ArrayPath: "items",
		Globals:   map[string]string{"userInputNumber": "10"},
		RowInputs: map[int]map[string]string{1: {"rowInputString": "second"}},
	})
	s.Require().NoError(err)

	var doc struct {
		Total json.Number
		Items []map[string]string
	}
	dec := json.NewDecoder(strings.NewReader(res.Document))
	dec.UseNumber()
	s.Require().NoError(dec.Decode(&doc))
	s.Equal("10", doc.Total.String())
	s.Equal([]map[string]string{
		{"n": "A", "s": "{{rowInputString}}"},
		{"n": "B", "s": "second"},
	}, doc.Items)
	s.Empty(res.Outputs)
}

// TestRunArrayModeBadPath - неверный путь блокирует запуск на этапе проверки
func (s *ArrayMergeSuite) TestRunArrayModeBadPath() {
	res, err := s.engine.Run(jsontemplar.Request{
		Template:  `{"items":[{"n":"{{name}}"}]}`,
		Table:     jsontemplar.ParseCSV("name\nA"),
		ArrayMode: true,
		ArrayPath: "things",
	})
	s.ErrorIs(err, jsontemplar.ErrNotReady)
	s.NotEmpty(res.Report.ArrayError)
}
