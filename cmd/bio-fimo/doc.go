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
Given a MEME motif database and a FASTA file of sequences, bio-fimo scans
every sequence on both strands for instances of every motif, and reports
every hit whose p-value is below a threshold. This command is similar to
the MEME Suite's "fimo".

Sample usage:
bio-fimo \
    -motifs motifs.meme \
    -sequences genome.fa \
    -threshold 1e-4 \
    -out hits.tsv
*/
package main
