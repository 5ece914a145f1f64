package frame

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedMapJSON(t *testing.T) {
	var om OrderedMap
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": {"y": 2.5, "b": [1, "x", null]}, "m": true}`), &om))
	require.Equal(t, []string{"z", "a", "m"}, om.Keys())

	z, _ := om.Get("z")
	require.Equal(t, int64(1), z)
	inner, _ := om.Get("a")
	require.Equal(t, OrderedMap{
		{Key: "y", Val: 2.5},
		{Key: "b", Val: []interface{}{int64(1), "x", nil}},
	}, inner)

	out, err := json.Marshal(om)
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":{"y":2.5,"b":[1,"x",null]},"m":true}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`[1]`), &om))
}

func TestFromMapSortsKeys(t *testing.T) {
	om := FromMap(map[string]interface{}{"b": 1, "a": 2, "c": 3})
	require.Equal(t, []string{"a", "b", "c"}, om.Keys())
	require.Equal(t, map[string]interface{}{"b": 1, "a": 2, "c": 3}, om.ToMap())
	require.Equal(t, `{"a":2,"b":1,"c":3}`, om.String())
}
