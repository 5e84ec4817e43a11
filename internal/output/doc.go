// Copyright 2025 DDQ Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package output writes query results in NDJSON (Newline Delimited JSON)
// format. Each record becomes exactly one line containing a valid JSON
// document, which keeps large result sets streamable: records go out as
// they arrive and are never accumulated in memory.
//
// The primary type is NDJSONWriter, which provides thread-safe writing of
// JSON records to an io.Writer or file.
//
// Example usage:
//
//	w, err := output.NewFileWriter("results.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	for _, record := range records {
//	    if err := w.Write(record); err != nil {
//	        log.Printf("Failed to write record: %v", err)
//	    }
//	}
//
//	fmt.Printf("Wrote %d records\n", w.Count())
package output
