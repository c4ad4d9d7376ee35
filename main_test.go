package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"loan-approval/config"
	"loan-approval/dataset"
	"loan-approval/domain"
)

func TestPrepareThenPredict(t *testing.T) {
	out := filepath.Join(t.TempDir(), "model_data.json")

	prepare := prepareCmd()
	prepare.SetArgs([]string{
		"--input", filepath.Join("dataset", "testdata", "loans.csv"),
		"--output", out,
		"--accuracy", "87.5",
	})
	require.NoError(t, prepare.Execute())

	snapshot, err := dataset.Load(out)
	require.NoError(t, err)
	require.NotNil(t, snapshot.InitialAccuracy)
	assert.Equal(t, 87.5, *snapshot.InitialAccuracy)
	assert.Len(t, snapshot.TrainingData, 4)

	viper.Set("model.path", out)
	viper.Set("model.k", 3)
	t.Cleanup(viper.Reset)

	var buf bytes.Buffer
	predict := predictCmd()
	predict.SetOut(&buf)
	predict.SetArgs([]string{
		"--dependents", "2",
		"--education", "Graduate",
		"--income", "9600000",
		"--loan-amount", "29900000",
		"--cibil", "778",
		"--assets", "50700000",
	})
	require.NoError(t, predict.Execute())
	assert.Contains(t, buf.String(), "of 3 neighbors approved")
}

func TestPredict_RejectsUnknownEducation(t *testing.T) {
	predict := predictCmd()
	predict.SetArgs([]string{
		"--dependents", "0",
		"--education", "PhD",
		"--income", "9600000",
		"--loan-amount", "29900000",
		"--cibil", "700",
		"--assets", "50700000",
	})
	predict.SilenceUsage = true
	predict.SilenceErrors = true

	viper.Set("model.path", filepath.Join("dataset", "testdata", "model_data.json"))
	t.Cleanup(viper.Reset)

	assert.Error(t, predict.Execute())
}

func TestPredict_RequiresEveryNumericFlag(t *testing.T) {
	predict := predictCmd()
	predict.SetArgs([]string{"--education", "Graduate", "--cibil", "700"})
	predict.SilenceUsage = true
	predict.SilenceErrors = true

	err := predict.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "income")
}

func TestPrepare_RejectsAccuracyAboveHundred(t *testing.T) {
	out := filepath.Join(t.TempDir(), "model_data.json")

	prepare := prepareCmd()
	prepare.SetArgs([]string{
		"--input", filepath.Join("dataset", "testdata", "loans.csv"),
		"--output", out,
		"--accuracy", "150",
	})
	prepare.SilenceUsage = true
	prepare.SilenceErrors = true

	err := prepare.Execute()
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.NoFileExists(t, out)
}

func TestWithApp(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := withApp(zap.New(core), config.AppConfig{Name: "loan-approval", Environment: "staging"})

	log.Info("model loaded")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "loan-approval", fields["app"])
	assert.Equal(t, "staging", fields["environment"])
}
