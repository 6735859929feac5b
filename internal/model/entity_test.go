package model

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(seq func(func(*Entity) bool)) []string {
	var out []string
	for e := range seq {
		out = append(out, e.ID())
	}
	return out
}

func TestCreateChild_FollowsAdjacencyTable(t *testing.T) {
	st := NewStation("1", "S1")
	arm := st.CreateChild("2", "A1")
	require.NotNil(t, arm)
	assert.Equal(t, KindArm, arm.Kind())
	assert.Equal(t, "arm", arm.Type())

	dev := arm.CreateChild("3", "D1")
	require.NotNil(t, dev)
	assert.Equal(t, KindDevice, dev.Kind())

	assert.Nil(t, dev.CreateChild("4", "nope"))
	assert.Equal(t, 0, st.Len(), "CreateChild must not attach")
}

func TestAddSubItem_RejectsWrongKind(t *testing.T) {
	st := NewStation("1", "S1")
	st.AddSubItem(New(KindArm, "2", "A"), Append)

	assert.False(t, st.AddSubItem(New(KindDevice, "3", "D"), Append))
	assert.False(t, st.AddSubItem(NewStation("4", "S"), Append))
	assert.False(t, st.AddSubItem(nil, Append))
	assert.Equal(t, []string{"2"}, ids(st.Children()))

	dev := New(KindDevice, "5", "D")
	assert.False(t, dev.AddSubItem(New(KindDevice, "6", "D"), Append))
	assert.False(t, dev.RemoveSubItem(New(KindDevice, "6", "D")))
	assert.Equal(t, 0, dev.Len())
}

func TestAddSubItem_InsertsAtIndex(t *testing.T) {
	arm := New(KindArm, "a", "A")
	require.True(t, arm.AddSubItem(New(KindDevice, "1", "one"), Append))
	require.True(t, arm.AddSubItem(New(KindDevice, "3", "three"), Append))
	require.True(t, arm.AddSubItem(New(KindDevice, "2", "two"), 1))
	require.True(t, arm.AddSubItem(New(KindDevice, "0", "zero"), 0))
	require.True(t, arm.AddSubItem(New(KindDevice, "4", "four"), 4))

	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, ids(arm.Children()))

	assert.False(t, arm.AddSubItem(New(KindDevice, "x", "x"), 7))
	assert.False(t, arm.AddSubItem(New(KindDevice, "x", "x"), -2))
	assert.Equal(t, 5, arm.Len())
}

func TestRemoveSubItem_RemovesFirstEqual(t *testing.T) {
	arm := New(KindArm, "a", "A")
	d1 := New(KindDevice, "1", "one")
	d2 := New(KindDevice, "2", "two")
	arm.AddSubItem(d1, Append)
	arm.AddSubItem(d2, Append)

	assert.True(t, arm.RemoveSubItem(New(KindDevice, "2", "two")), "structural match")
	assert.False(t, arm.RemoveSubItem(d2))
	assert.True(t, arm.RemoveSubItem(d1))
	assert.Equal(t, 0, arm.Len())
}

func TestChildren_IsRestartableView(t *testing.T) {
	st := NewStation("1", "S")
	seq := st.Children()
	assert.Empty(t, ids(seq))

	st.AddSubItem(New(KindArm, "2", "A"), Append)
	assert.Equal(t, []string{"2"}, ids(seq))
	assert.Equal(t, []string{"2"}, ids(seq))

	// Early break is honoured.
	st.AddSubItem(New(KindArm, "3", "B"), Append)
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestWalk_PreOrder(t *testing.T) {
	s := NewStations(NewStation("1", "S1"), NewStation("5", "S2"))
	st := s.items[0]
	arm := st.CreateChild("2", "A")
	arm.AddSubItem(arm.CreateChild("3", "D1"), Append)
	arm.AddSubItem(arm.CreateChild("4", "D2"), Append)
	st.AddSubItem(arm, Append)

	var got []string
	s.Walk(func(e *Entity) bool {
		got = append(got, e.ID())
		return true
	})
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, got)
	assert.Equal(t, map[Kind]int{KindStation: 2, KindArm: 1, KindDevice: 2}, s.Count())

	got = got[:0]
	s.Walk(func(e *Entity) bool {
		got = append(got, e.ID())
		return e.ID() != "3"
	})
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestStations_EqualNil(t *testing.T) {
	var s *Stations
	assert.True(t, s.Equal(nil))
	assert.True(t, s.Equal(NewStations()))
	assert.True(t, NewStations().Equal(s))
	assert.False(t, s.Equal(NewStations(NewStation("1", "A"))))
	assert.False(t, NewStations(NewStation("1", "A")).Equal(s))
}

func TestClone_IsDeep(t *testing.T) {
	st := NewStation("1", "S")
	arm := st.CreateChild("2", "A")
	st.AddSubItem(arm, Append)

	c := st.Clone()
	require.True(t, c.Equal(st))
	c.Child(0).Name = "changed"
	assert.Equal(t, "A", arm.Name)
	assert.False(t, c.Equal(st))
}

func TestStations_RoundTrip(t *testing.T) {
	in := dedent.Dedent(`
		[
		  {
		    "id": "1",
		    "name": "S1",
		    "items": [
		      {
		        "id": "2",
		        "name": "A1",
		        "items": [
		          {
		            "id": "3",
		            "name": "D1"
		          }
		        ]
		      },
		      {
		        "id": "4",
		        "name": "A2",
		        "items": []
		      }
		    ]
		  },
		  {
		    "id": "5",
		    "name": "S2",
		    "items": []
		  }
		]`)

	s, err := DecodeStations([]byte(in))
	require.NoError(t, err)
	out, err := json.MarshalIndent(s, "", "  ")
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	again, err := DecodeStations(out)
	require.NoError(t, err)
	assert.True(t, s.Equal(again))

	st := slices.Collect(s.Children())
	require.Len(t, st, 2)
	assert.Equal(t, KindStation, st[0].Kind())
	assert.Equal(t, KindDevice, st[0].Child(0).Child(0).Kind())
}

func TestStations_KeyOrder(t *testing.T) {
	s := NewStations(NewStation("1", "S"))
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","name":"S","items":[]}]`, string(b))

	dev := New(KindDevice, "9", "D")
	b, err = json.Marshal(dev)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"9","name":"D"}`, string(b))
}

func TestStations_DecodeTolerance(t *testing.T) {
	s, err := DecodeStations([]byte(`[{"type":"station","id":"1","name":"S","items":null},{"id":"2","name":"T"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	empty, err := DecodeStations([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestStations_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "malformed", in: `[{"id":`},
		{name: "not an array", in: `{"id":"1"}`},
		{name: "null", in: `null`},
		{name: "items wrong type", in: `[{"id":"1","name":"S","items":"x"}]`},
		{name: "missing station id", in: `[{"name":"S"}]`},
		{name: "missing device id", in: `[{"id":"1","items":[{"id":"2","items":[{"name":"D"}]}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStations([]byte(tt.in))
			assert.Error(t, err)
		})
	}

	_, err := DecodeStations([]byte(`null`))
	assert.ErrorIs(t, err, ErrNullDocument)

	_, err = DecodeStations([]byte(`[{"id":"1","items":[{"id":"2","items":[{"name":"D"}]}]}]`))
	var se SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "[0].items[0].items[0].id", se.Field)
	assert.Equal(t, "required", se.Rule)
}

func TestDecode_SingleKind(t *testing.T) {
	e, err := Decode(KindArm, []byte(`{"id":"a","name":"A","items":[{"id":"d","name":"D"}]}`))
	require.NoError(t, err)
	assert.Equal(t, KindArm, e.Kind())
	assert.Equal(t, 1, e.Len())

	_, err = Decode(KindDevice, []byte(`{"name":"D"}`))
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindStation, KindArm, KindDevice} {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("root")
	assert.False(t, ok)
}
