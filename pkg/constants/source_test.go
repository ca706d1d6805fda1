// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSourceDirectory(t *testing.T) {
	assert.NoError(t, ValidateSourceDirectory(SourceDirectoryGoogle))
	assert.NoError(t, ValidateSourceDirectory(SourceDirectoryNATS))
	assert.NoError(t, ValidateSourceDirectory(SourceDirectoryMock))

	err := ValidateSourceDirectory("")
	assert.ErrorContains(t, err, "required")

	err = ValidateSourceDirectory("ldap")
	assert.ErrorContains(t, err, "unsupported source directory: ldap")
}

func TestValidateSubscriberList(t *testing.T) {
	assert.NoError(t, ValidateSubscriberList(SubscriberListMailchimp))
	assert.NoError(t, ValidateSubscriberList(SubscriberListGroupsIO))
	assert.NoError(t, ValidateSubscriberList(SubscriberListMock))

	assert.ErrorContains(t, ValidateSubscriberList(""), "required")
	assert.ErrorContains(t, ValidateSubscriberList("sendgrid"), "unsupported subscriber list: sendgrid")
}
