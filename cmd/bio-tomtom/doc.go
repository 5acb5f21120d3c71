// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Given two MEME motif databases, bio-tomtom aligns every query motif
against every target motif, reporting the best ungapped offset and a
p-value for each pair. This command is similar to the MEME Suite's
"tomtom".

Sample usage:
bio-tomtom \
    -queries queries.meme \
    -targets targets.meme \
    -pvalue-mode convolution \
    -out alignments.tsv
*/
package main
