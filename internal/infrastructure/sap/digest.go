package sap

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

// volatileElement es el único nodo que cambia entre dos generaciones del mismo documento.
const volatileElement = "./Header/GeneratedAt"

// ContentDigest devuelve el SHA-256 (hex) del XML canónico sin GeneratedAt.
// Dos ejecuciones sobre los mismos datos producen el mismo digest.
func ContentDigest(xmlBytes []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return "", fmt.Errorf("sap: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("sap: documento sin raíz")
	}
	stripped := root.Copy()
	if el := stripped.FindElement(volatileElement); el != nil {
		el.Parent().RemoveChild(el)
	}
	out := etree.NewDocument()
	out.SetRoot(stripped)
	raw, err := out.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("sap: serializar XML: %w", err)
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return "", fmt.Errorf("sap: canonicalizar XML: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
