package perception

import "testing"

const sampleDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node text="" resource-id="" bounds="[0,0][1080,2340]" clickable="false">
    <node text="Subscribe" resource-id="com.app:id/subscribe" bounds="[100,200][300,260]" clickable="true"/>
    <node text="" content-desc="Like" bounds="[100,300][300,360]" clickable="true"/>
    <node text="Subscribe to newsletter" resource-id="" bounds="[100,400][500,460]" clickable="false"/>
    <node text="" content-desc="" resource-id="com.app:id/send_button" bounds="[900,2200][1060,2300]" clickable="true"/>
  </node>
</hierarchy>`

func TestParseHierarchyFlattens(t *testing.T) {
	elements, err := parseHierarchy(sampleDump)
	if err != nil {
		t.Fatalf("parseHierarchy: %v", err)
	}
	if len(elements) != 4 {
		t.Fatalf("elements = %d, want 4", len(elements))
	}
	if elements[3].label != "send button" {
		t.Fatalf("resource-id label = %q, want \"send button\"", elements[3].label)
	}
}

func TestPickBestPrefersExactThenClickable(t *testing.T) {
	elements, err := parseHierarchy(sampleDump)
	if err != nil {
		t.Fatalf("parseHierarchy: %v", err)
	}

	var matches []element
	for _, el := range elements {
		if el.label == "subscribe" || el.label == "subscribe to newsletter" {
			matches = append(matches, el)
		}
	}
	best := pickBest(matches, "subscribe")
	if best.x != 200 || best.y != 230 {
		t.Fatalf("best = (%d,%d), want exact-match center (200,230)", best.x, best.y)
	}
}

func TestCenterOf(t *testing.T) {
	x, y, ok := centerOf("[100,200][300,260]")
	if !ok || x != 200 || y != 230 {
		t.Fatalf("centerOf = (%d,%d) %v", x, y, ok)
	}
	if _, _, ok := centerOf("garbage"); ok {
		t.Fatal("centerOf accepted garbage")
	}
	if _, _, ok := centerOf("[300,200][100,260]"); ok {
		t.Fatal("centerOf accepted inverted bounds")
	}
}
