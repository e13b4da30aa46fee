// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pdiddy/pkprocessing/internal/param"
)

const svmBin = toolsDir + "/pksvm"

func TestSVMCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want []string
	}{
		{
			name: "defaults",
			raw:  map[string]string{ParamInput: "in.tif", ParamTraining: "train.sqlite"},
			want: []string{
				svmBin, "-i", "in.tif", "-t", "train.sqlite", "-label", "label",
				"-g", "1", "-cc", "1000", "-o", "class.tif", "-of", "GTiff",
			},
		},
		{
			name: "layers and hyperparameters",
			raw: map[string]string{
				ParamInput:    "in.tif",
				ParamTraining: "train.sqlite",
				ParamLayers:   "forest;water",
				ParamLabel:    "class",
				ParamGamma:    "0.25",
				ParamCost:     "10",
				ParamExtra:    "",
			},
			want: []string{
				svmBin, "-i", "in.tif", "-t", "train.sqlite", "-ln", "forest", "-ln", "water",
				"-label", "class", "-g", "0.25", "-cc", "10", "-o", "class.tif",
			},
		},
		{
			name: "mask with nodata values",
			raw: map[string]string{
				ParamInput:     "in.tif",
				ParamTraining:  "train.sqlite",
				ParamMask:      "mask.tif",
				ParamMskNodata: "0;255",
				ParamExtra:     "-of GTiff -co COMPRESS=LZW",
			},
			want: []string{
				svmBin, "-i", "in.tif", "-t", "train.sqlite", "-label", "label", "-g", "1", "-cc", "1000",
				"-m", "mask.tif", "-msknodata", "0", "-msknodata", "255",
				"-o", "class.tif", "-of", "GTiff", "-co", "COMPRESS=LZW",
			},
		},
		{
			name: "None mask placeholder is ignored",
			raw: map[string]string{
				ParamInput:     "in.tif",
				ParamTraining:  "train.sqlite",
				ParamMask:      "None",
				ParamMskNodata: "7",
				ParamExtra:     "",
			},
			want: []string{
				svmBin, "-i", "in.tif", "-t", "train.sqlite", "-label", "label", "-g", "1", "-cc", "1000",
				"-o", "class.tif",
			},
		},
		{
			name: "iterate has no flag",
			raw: map[string]string{
				ParamInput:    "in.tif",
				ParamTraining: "train.sqlite",
				ParamIterate:  "false",
				ParamExtra:    "",
			},
			want: []string{
				svmBin, "-i", "in.tif", "-t", "train.sqlite", "-label", "label", "-g", "1", "-cc", "1000",
				"-o", "class.tif",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewSVM(svmBin)
			v := parseValues(t, a, tt.raw, map[string]string{OutputPath: "class.tif"})

			got, err := a.Commands(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "class.tif", v.Output(OutputPath), "raster output is never renamed")
		})
	}
}

func TestSVMEmptyInputAndOutputAreOmitted(t *testing.T) {
	a := NewSVM(svmBin)
	v := parseValues(t, a,
		map[string]string{ParamInput: "in.tif", ParamTraining: "train.sqlite", ParamExtra: ""},
		map[string]string{OutputPath: "class.tif"})
	v.Set(ParamInput, "")
	v.SetOutput(OutputPath, "")

	got, err := a.Commands(v)
	require.NoError(t, err)
	assert.Equal(t, []string{svmBin, "-t", "train.sqlite", "-label", "label", "-g", "1", "-cc", "1000"}, got)
}

func TestSVMExtraWithShellOperatorFails(t *testing.T) {
	a := NewSVM(svmBin)
	v := parseValues(t, a,
		map[string]string{ParamInput: "in.tif", ParamTraining: "train.sqlite", ParamExtra: "-of GTiff ; -co COMPRESS=LZW"},
		map[string]string{OutputPath: "class.tif"})

	_, err := a.Commands(v)
	require.ErrorIs(t, err, param.ErrInvalidValue)
}

func TestSVMProperties(t *testing.T) {
	a := NewSVM(svmBin)

	t.Run("one pair per layer and mask value", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			layers := rapid.SliceOfN(rapid.StringMatching(`[a-z][a-z0-9_]{0,7}`), 1, 5).Draw(t, "layers")
			nodata := rapid.SliceOfN(rapid.StringMatching(`[0-9]{1,3}`), 1, 5).Draw(t, "nodata")
			v := parseValues(t, a, map[string]string{
				ParamInput:     "in.tif",
				ParamTraining:  "train.sqlite",
				ParamLayers:    strings.Join(layers, ";"),
				ParamMask:      "mask.tif",
				ParamMskNodata: strings.Join(nodata, ";"),
			}, map[string]string{OutputPath: "class.tif"})

			got, err := a.Commands(v)
			require.NoError(t, err)
			assert.Equal(t, layers, flagValues(got, "-ln"))
			assert.Equal(t, nodata, flagValues(got, "-msknodata"))
		})
	})

	t.Run("extra parameters are last", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			words := rapid.SliceOfN(rapid.StringMatching(`-[a-z]{1,5}`), 1, 6).Draw(t, "words")
			v := parseValues(t, a, map[string]string{
				ParamInput:    "in.tif",
				ParamTraining: "train.sqlite",
				ParamExtra:    strings.Join(words, " "),
			}, map[string]string{OutputPath: "class.tif"})

			got, err := a.Commands(v)
			require.NoError(t, err)
			assert.Equal(t, words, got[len(got)-len(words):])
		})
	})
}
