package projection_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/projection"
)

func ExampleService_Document() {
	s := family.NewStore(family.Options{})
	root, _ := s.CreatePerson(family.Fields{Name: "Root", Gender: family.GenderMale}, family.Relations{})
	for _, name := range []string{"A", "B", "C"} {
		_, _ = s.CreatePerson(family.Fields{Name: name, Gender: family.GenderFemale},
			family.Relations{Parents: []string{root.ID}})
	}

	svc := projection.NewService(s, projection.Options{})
	doc, _ := svc.Document(context.Background(), projection.VizTiered)
	for _, p := range doc.Persons {
		c := doc.Cells[p.ID]
		fmt.Printf("%s row=%d order=%d\n", p.Name, c.Row, c.Order)
	}
	fmt.Println("connectors:", len(doc.Connectors))
	// Output:
	// Root row=0 order=0
	// A row=1 order=0
	// B row=1 order=1
	// C row=1 order=2
	// connectors: 3
}
