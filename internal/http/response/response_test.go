package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrdekan/projects-api-test-task/internal/http/response"
)

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]string{"token": "abc"})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("project not found")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "project not found", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Name string `validate:"required,min=1,max=200"`
		URL  string `validate:"required,url"`
	}

	validate := validator.New()

	err := validate.Struct(request{Name: "", URL: "not a url"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	resp := response.ValidationError(verrs)
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Name is a required field")
	assert.Contains(t, resp.Error, "field URL must be a valid url")
}
