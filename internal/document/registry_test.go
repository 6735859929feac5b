package document

import (
	"strconv"
	"testing"

	"stationtree/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ValidateAndRegister(t *testing.T) {
	r := NewRegistry()
	st := model.NewStation("1", "S")
	st.AddSubItem(st.CreateChild("2", "A"), model.Append)
	require.NoError(t, r.ValidateAndRegister(st))
	assert.Equal(t, []string{"1", "2"}, r.IDs())

	err := r.ValidateAndRegister(model.NewStation("2", "again"))
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, InUse, dup.Reason)
	assert.Equal(t, `Id "2" is already used!`, dup.Error())
}

func TestRegistry_FailureRegistersNothing(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.ValidateAndRegister(model.NewStation("taken", "x")))

	st := model.NewStation("a", "S")
	arm := st.CreateChild("b", "A")
	arm.AddSubItem(arm.CreateChild("c", "D"), model.Append)
	arm.AddSubItem(arm.CreateChild("a", "D"), model.Append)
	st.AddSubItem(arm, model.Append)

	err := r.ValidateAndRegister(st)
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, Repeated, dup.Reason)
	assert.Equal(t, "a", dup.ID)
	assert.Equal(t, `Id "a" is used more than once!`, dup.Error())
	assert.Equal(t, []string{"taken"}, r.IDs())

	late := model.NewStation("d", "S")
	late.AddSubItem(late.CreateChild("taken", "A"), model.Append)
	require.Error(t, r.ValidateAndRegister(late))
	assert.False(t, r.Contains("d"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_GenerateUniqueIDRetries(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.ValidateAndRegister(model.NewStation("7", "x")))
	require.NoError(t, r.ValidateAndRegister(model.NewStation("8", "y")))

	draws := []uint64{7, 8, 7, 42}
	calls := 0
	r.random = func() uint64 {
		v := draws[calls]
		calls++
		return v
	}

	assert.Equal(t, "42", r.GenerateUniqueID())
	assert.Equal(t, 4, calls)
	assert.False(t, r.Contains("42"), "generation does not register")
}

func TestRegistry_GenerateUniqueIDIsNumeric(t *testing.T) {
	r := NewRegistry()
	id := r.GenerateUniqueID()
	_, err := strconv.ParseUint(id, 10, 64)
	assert.NoError(t, err)
}
