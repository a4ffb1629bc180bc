// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// kernels_dispatcher generates gen_register_dtypes.go for pkg/strided/kernels: the registration
// of the generic kernels instantiated for each supported dtype.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"text/template"

	"github.com/gomlx/strided/internal/must"
	"k8s.io/klog/v2"
)

type DTypeInfo struct {
	DType, GoType string
}

type MapInfo struct {
	MapName, Generic string
	DTypes           []DTypeInfo
}

type Data struct {
	Maps []MapInfo
}

var (
	// data lists the maps to register, their generic function and with which set of dtypes.
	data = Data{
		Maps: []MapInfo{
			{"fillDTypeMap", "fillGeneric", makeDTypes(true, true, true, true, true, true)},
			{"copyDTypeMap", "copyGeneric", makeDTypes(true, true, true, true, true, true)},
			{"sumDTypeMap", "sumGeneric", makeDTypes(true, true, true, false, false, false)},
			{"unaryDTypeMap", "unaryGeneric", makeDTypes(true, true, true, true, true, true)},
			{"binaryDTypeMap", "binaryGeneric", makeDTypes(true, true, true, true, true, true)},
			{"fromFloat64DTypeMap", "fromFloat64Generic", makeDTypes(true, true, true, false, false, false)},
			{"fromFloat64DTypeMap", "fromFloat64Complex", makeDTypes(false, false, false, false, false, true)},
		},
	}
	fileName = "gen_register_dtypes.go"
)

func makeDTypes(ints, uints, floats, floats16, boolean, complexes bool) []DTypeInfo {
	dtypes := make([]DTypeInfo, 0, 16)
	if ints {
		dtypes = append(dtypes,
			DTypeInfo{"Int8", "int8"},
			DTypeInfo{"Int16", "int16"},
			DTypeInfo{"Int32", "int32"},
			DTypeInfo{"Int64", "int64"},
		)
	}
	if uints {
		dtypes = append(dtypes,
			DTypeInfo{"Uint8", "uint8"},
			DTypeInfo{"Uint16", "uint16"},
			DTypeInfo{"Uint32", "uint32"},
			DTypeInfo{"Uint64", "uint64"},
		)
	}
	if floats {
		dtypes = append(dtypes,
			DTypeInfo{"Float32", "float32"},
			DTypeInfo{"Float64", "float64"},
		)
	}
	if floats16 {
		dtypes = append(dtypes,
			DTypeInfo{"BFloat16", "bfloat16.BFloat16"},
			DTypeInfo{"Float16", "float16.Float16"},
		)
	}
	if boolean {
		dtypes = append(dtypes, DTypeInfo{"Bool", "bool"})
	}
	if complexes {
		dtypes = append(dtypes,
			DTypeInfo{"Complex64", "complex64"},
			DTypeInfo{"Complex128", "complex128"},
		)
	}
	return dtypes
}

var outputDir = flag.String("output_dir", "", "Directory where to write the generated file. Defaults to the current directory.")

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	registerTemplate := template.Must(
		template.
			New(fileName).
			Parse(

				`/***** File generated by ./internal/cmd/kernels_dispatcher. Don't edit it directly. *****/

package kernels

import (
	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

func init() {
{{- range .Maps}}

	// DTypeMap: {{.MapName}}
{{- $mapName := .MapName }}
{{- $generic := .Generic }}
{{- range .DTypes }}
	{{$mapName}}.Register(dtypes.{{.DType}}, PriorityGeneric, {{$generic}}[{{.GoType}}])
{{- end }}
{{- end }}
}
`))
	dir := *outputDir
	if dir == "" {
		dir = must.M1(os.Getwd())
	}
	fullPath := path.Join(dir, fileName)
	f := must.M1(os.Create(fullPath))
	must.M(registerTemplate.Execute(f, data))
	must.M(f.Close())

	cmd := exec.Command("gofmt", "-w", fullPath)
	klog.V(1).Infof("\t%s\n", cmd)
	must.M(cmd.Run())
	fmt.Printf("✅ kernels_dispatcher:  \tsuccessfully generated %s\n", fullPath)
}
