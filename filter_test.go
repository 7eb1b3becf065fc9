package jsontemplar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRows(t *testing.T) {
	table := ParseCSV("name,age,first name\nJohn,30,J\nJane,17,\nJim,abc,Jim")

	cases := []struct {
		expr string
		want []string
	}{
		{"num(age) >= 18", []string{"John"}},
		{`name startsWith "J"`, []string{"John", "Jane", "Jim"}},
		{`name == "Jane" || age == "abc"`, []string{"Jane", "Jim"}},
		{`empty(row["first name"])`, []string{"Jane"}},
		{`!empty(row["first name"]) && num(age) < 100`, []string{"John", "Jim"}},
		{"  ", []string{"John", "Jane", "Jim"}},
	}
	for _, c := range cases {
		got, err := FilterRows(table, c.expr)
		require.NoError(t, err, c.expr)
		var names []string
		for _, r := range got.Rows {
			names = append(names, r["name"])
		}
		assert.Equal(t, c.want, names, c.expr)
		assert.Equal(t, table.Headers, got.Headers)
	}
}

func TestFilterRows_Errors(t *testing.T) {
	table := ParseCSV("name\nJohn")
	_, err := FilterRows(table, "unknownColumn == 1")
	assert.Error(t, err, "unknown variable")

	_, err = FilterRows(table, "name")
	assert.Error(t, err, "non-boolean result")

	_, err = FilterRows(table, "name ==")
	assert.Error(t, err, "syntax error")
}

func TestFilterRows_DoesNotMutateInput(t *testing.T) {
	table := ParseCSV("n\n1\n2")
	out, err := FilterRows(table, `n == "2"`)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 2, table.Len())
}

func TestFilterRows_ColumnsShadowHelpers(t *testing.T) {
	table := ParseCSV("num,empty,name\n5,,a\n7,x,b")

	out, err := FilterRows(table, `num == "5"`)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "a", out.Rows[0]["name"])

	out, err = FilterRows(table, `row["empty"] == "x" && row["num"] == "7"`)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "b", out.Rows[0]["name"])
}
