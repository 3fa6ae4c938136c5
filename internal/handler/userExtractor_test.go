package handler

import (
	"testing"

	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetUserFromContext(t *testing.T) {
	user := &model.User{
		ID:    1000,
		Email: "some@thing.dk",
		Name:  "Someone",
	}

	c := &gin.Context{}

	c.Set("user", user)

	u, err := GetUserFromContext(c)
	assert.NoError(t, err)

	assert.Equal(t, uint(1000), u.ID)
	assert.Equal(t, "some@thing.dk", u.Email)
	assert.Equal(t, "Someone", u.Name)
}

func TestGetUserFromContext_NoUser(t *testing.T) {
	c := &gin.Context{}

	u, err := GetUserFromContext(c)
	assert.Error(t, err)
	assert.Nil(t, u)
}
